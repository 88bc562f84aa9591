package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mancera-edu/classroom-service/internal/models"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client, time.Hour), mr
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	token, err := store.Create(ctx, 7, models.RoleStudent)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if token == "" {
		t.Fatal("Create() returned empty token")
	}

	session, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if session.UserID != 7 || session.Role != models.RoleStudent {
		t.Errorf("Get() = %+v, want UserID 7 role student", session)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after delete = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Get(context.Background(), "not-a-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionSlidingExpiration(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	token, err := store.Create(ctx, 7, models.RoleStudent)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Burn most of the TTL, then touch the session.
	mr.FastForward(50 * time.Minute)
	if _, err := store.Get(ctx, token); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	// Without the refresh this would be past the original expiry.
	mr.FastForward(50 * time.Minute)
	if _, err := store.Get(ctx, token); err != nil {
		t.Errorf("session should survive an access within the refreshed TTL: %v", err)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session should expire after the TTL elapses untouched, got %v", err)
	}
}

func TestDeleteAllForUser(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first, err := store.Create(ctx, 7, models.RoleStudent)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	second, err := store.Create(ctx, 7, models.RoleStudent)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	other, err := store.Create(ctx, 9, models.RoleStudent)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := store.DeleteAllForUser(ctx, 7); err != nil {
		t.Fatalf("DeleteAllForUser() error: %v", err)
	}

	for _, token := range []string{first, second} {
		if _, err := store.Get(ctx, token); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("session %s should be gone, got %v", token, err)
		}
	}
	if _, err := store.Get(ctx, other); err != nil {
		t.Errorf("other user's session should survive: %v", err)
	}
}
