package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mancera-edu/classroom-service/internal/models"
)

const sessionKeyPrefix = "session:"

// Session is the payload stored in Redis for one logged-in user.
type Session struct {
	UserID    uint            `json:"user_id"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// SessionStore keeps opaque session tokens in Redis. Tokens are random
// UUIDs, so nothing about the user leaks into the cookie value.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// ErrSessionNotFound is returned when a token is unknown or expired.
var ErrSessionNotFound = fmt.Errorf("session not found")

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// TTL reports the lifetime applied to new and refreshed sessions.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session and returns its token.
func (s *SessionStore) Create(ctx context.Context, userID uint, role models.UserRole) (string, error) {
	session := Session{
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("session marshal error: %w", err)
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store error: %w", err)
	}
	return token, nil
}

// Get resolves a token and refreshes its TTL on hit.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get error: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("session unmarshal error: %w", err)
	}

	// Sliding expiration: active users stay logged in.
	s.client.Expire(ctx, sessionKeyPrefix+token, s.ttl)

	return &session, nil
}

// Delete removes a session, ending the login.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

// DeleteAllForUser removes every session belonging to a user. Used when
// an account is deactivated or deleted.
func (s *SessionStore) DeleteAllForUser(ctx context.Context, userID uint) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("session scan error: %w", err)
		}
		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				continue
			}
			var session Session
			if err := json.Unmarshal([]byte(data), &session); err != nil {
				continue
			}
			if session.UserID == userID {
				s.client.Del(ctx, key)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}
