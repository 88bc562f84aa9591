package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSessionStore(t *testing.T) *cache.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewSessionStore(client, time.Hour)
}

func newTestAuthService(repo *mockRepository, publisher events.EventPublisher, sessions *cache.SessionStore) *authService {
	return &authService{
		repo:           repo,
		sessions:       sessions,
		eventPublisher: publisher,
		logger:         testLogger(),
		validator:      validator.New(),
	}
}

func TestEvaluateStudentAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	t.Run("professor always passes", func(t *testing.T) {
		svc := newTestAuthService(&mockRepository{}, events.NewMockEventPublisher(testLogger()), nil)
		user := &models.User{ID: 1, Role: models.RoleProfessor}

		if err := svc.EvaluateStudentAccess(ctx, user); err != nil {
			t.Errorf("EvaluateStudentAccess() = %v, want nil", err)
		}
	})

	t.Run("active student in subscription window passes", func(t *testing.T) {
		svc := newTestAuthService(&mockRepository{}, events.NewMockEventPublisher(testLogger()), nil)
		user := &models.User{ID: 2, Role: models.RoleStudent, IsActive: true, SubscriptionEndDate: &future}

		if err := svc.EvaluateStudentAccess(ctx, user); err != nil {
			t.Errorf("EvaluateStudentAccess() = %v, want nil", err)
		}
	})

	t.Run("inactive student denied", func(t *testing.T) {
		svc := newTestAuthService(&mockRepository{}, events.NewMockEventPublisher(testLogger()), nil)
		user := &models.User{ID: 3, Role: models.RoleStudent, IsActive: false}

		if err := svc.EvaluateStudentAccess(ctx, user); !errors.Is(err, ErrAccountInactive) {
			t.Errorf("EvaluateStudentAccess() = %v, want ErrAccountInactive", err)
		}
	})

	t.Run("expired subscription deactivates and publishes", func(t *testing.T) {
		var deactivated *uint
		repo := &mockRepository{}
		repo.user.setActive = func(id uint, active bool) error {
			if active {
				t.Errorf("SetActive called with active=true")
			}
			deactivated = &id
			return nil
		}
		publisher := events.NewMockEventPublisher(testLogger())
		svc := newTestAuthService(repo, publisher, nil)

		user := &models.User{ID: 4, Role: models.RoleStudent, IsActive: true, SubscriptionEndDate: &past}

		if err := svc.EvaluateStudentAccess(ctx, user); !errors.Is(err, ErrSubscriptionExpired) {
			t.Fatalf("EvaluateStudentAccess() = %v, want ErrSubscriptionExpired", err)
		}
		if deactivated == nil || *deactivated != 4 {
			t.Errorf("expected SetActive(4, false), got %v", deactivated)
		}
		if user.IsActive {
			t.Error("user should be flagged inactive in memory")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.TypeStudentSuspended {
			t.Errorf("event type = %q, want %q", published[0].Type, events.TypeStudentSuspended)
		}
	})

	t.Run("expired subscription still denies when publish fails", func(t *testing.T) {
		repo := &mockRepository{}
		repo.user.setActive = func(id uint, active bool) error { return nil }
		publisher := events.NewMockEventPublisher(testLogger())
		publisher.FailNext = errors.New("broker down")
		svc := newTestAuthService(repo, publisher, nil)

		user := &models.User{ID: 5, Role: models.RoleStudent, IsActive: true, SubscriptionEndDate: &past}

		if err := svc.EvaluateStudentAccess(ctx, user); !errors.Is(err, ErrSubscriptionExpired) {
			t.Errorf("EvaluateStudentAccess() = %v, want ErrSubscriptionExpired", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(30 * 24 * time.Hour)

	student := &models.User{ID: 7, Email: "ana@example.com", Name: "Ana", Role: models.RoleStudent, IsActive: true, SubscriptionEndDate: &future}
	if err := student.SetPassword("correct-horse"); err != nil {
		t.Fatalf("SetPassword() error: %v", err)
	}

	newRepo := func() *mockRepository {
		repo := &mockRepository{}
		repo.user.getByEmail = func(email string) (*models.User, error) {
			if email == student.Email {
				copy := *student
				return &copy, nil
			}
			return nil, repositories.ErrNotFound
		}
		repo.user.getByID = func(id uint) (*models.User, error) {
			if id == student.ID {
				copy := *student
				return &copy, nil
			}
			return nil, repositories.ErrNotFound
		}
		return repo
	}

	t.Run("unknown email", func(t *testing.T) {
		svc := newTestAuthService(newRepo(), events.NewMockEventPublisher(testLogger()), testSessionStore(t))
		_, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := newTestAuthService(newRepo(), events.NewMockEventPublisher(testLogger()), testSessionStore(t))
		_, err := svc.Login(ctx, &LoginRequest{Email: student.Email, Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("successful login resolves back to the user", func(t *testing.T) {
		sessions := testSessionStore(t)
		svc := newTestAuthService(newRepo(), events.NewMockEventPublisher(testLogger()), sessions)

		result, err := svc.Login(ctx, &LoginRequest{Email: student.Email, Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if result.Token == "" {
			t.Fatal("Login() returned empty token")
		}
		if result.User.ID != student.ID {
			t.Errorf("Login() user ID = %d, want %d", result.User.ID, student.ID)
		}

		resolved, err := svc.Resolve(ctx, result.Token)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if resolved.ID != student.ID {
			t.Errorf("Resolve() user ID = %d, want %d", resolved.ID, student.ID)
		}
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		sessions := testSessionStore(t)
		svc := newTestAuthService(newRepo(), events.NewMockEventPublisher(testLogger()), sessions)

		result, err := svc.Login(ctx, &LoginRequest{Email: student.Email, Password: "correct-horse"})
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if err := svc.Logout(ctx, result.Token); err != nil {
			t.Fatalf("Logout() error: %v", err)
		}
		if _, err := svc.Resolve(ctx, result.Token); !errors.Is(err, cache.ErrSessionNotFound) {
			t.Errorf("Resolve() after logout = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("expired student cannot log in", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		expired := &models.User{ID: 8, Email: "late@example.com", Role: models.RoleStudent, IsActive: true, SubscriptionEndDate: &past}
		if err := expired.SetPassword("pw-123456"); err != nil {
			t.Fatalf("SetPassword() error: %v", err)
		}

		repo := &mockRepository{}
		repo.user.getByEmail = func(email string) (*models.User, error) { return expired, nil }
		repo.user.setActive = func(id uint, active bool) error { return nil }

		svc := newTestAuthService(repo, events.NewMockEventPublisher(testLogger()), testSessionStore(t))
		_, err := svc.Login(ctx, &LoginRequest{Email: expired.Email, Password: "pw-123456"})
		if !errors.Is(err, ErrSubscriptionExpired) {
			t.Errorf("Login() = %v, want ErrSubscriptionExpired", err)
		}
	})
}
