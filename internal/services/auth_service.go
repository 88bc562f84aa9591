package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

type authService struct {
	repo           repositories.Repository
	sessions       *cache.SessionStore
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewAuthService(repo repositories.Repository, sessions *cache.SessionStore, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:           repo,
		sessions:       sessions,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("Login failed", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	// The gate runs at login too, so an expired student never gets a
	// session in the first place.
	if user.Role == models.RoleStudent {
		if err := s.EvaluateStudentAccess(ctx, user); err != nil {
			return nil, err
		}
	} else if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.sessions.Create(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &AuthResult{Token: token, User: user, TTL: s.sessions.TTL()}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a session token back to its user. Expired or unknown
// tokens come back as ErrSessionNotFound.
func (s *authService) Resolve(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, session.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Account deleted while the session was alive.
			s.sessions.Delete(ctx, token)
			return nil, cache.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

func (s *authService) EvaluateStudentAccess(ctx context.Context, user *models.User) error {
	if user.Role != models.RoleStudent {
		return nil
	}

	if !user.IsActive {
		return ErrAccountInactive
	}

	if !user.IsSubscriptionExpired(time.Now()) {
		return nil
	}

	// Expiry is persisted immediately so every later check takes the
	// cheap inactive path.
	if err := s.repo.User().SetActive(ctx, user.ID, false); err != nil {
		return fmt.Errorf("failed to deactivate expired account: %w", err)
	}
	user.IsActive = false

	s.logger.Info("Student suspended, subscription expired",
		"user_id", user.ID,
		"subscription_end_date", user.SubscriptionEndDate)

	event := events.NewEvent(events.TypeStudentSuspended, events.StudentSuspendedEvent{
		StudentID: user.ID,
		Email:     user.Email,
		Reason:    "subscription expired",
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish suspension event", "error", err, "user_id", user.ID)
	}

	return ErrSubscriptionExpired
}
