package services

import (
	"errors"
	"fmt"

	"github.com/mancera-edu/classroom-service/internal/repositories"
)

// Sentinel errors for business rule violations. Handlers map these to
// HTTP status codes in handleServiceError.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrSubscriptionExpired = errors.New("subscription has expired")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrDuplicateSubmission = errors.New("task already has a submission from this student")
	ErrSubmissionClosed    = errors.New("task is past its due date and does not accept late submissions")
	ErrTaskInactive        = errors.New("task is not active")
	ErrEmptySubmission     = errors.New("submission must include text content or a file")
	ErrProfessorImmutable  = errors.New("professor account cannot be modified through student management")
	ErrRecipientNotFound   = errors.New("message recipient not found")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string, value interface{}) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// PermissionError is returned when a user acts on a resource they do
// not own or lack the role for.
type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) error {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsNotFoundError reports whether err originated from a missing record
// in the repository layer.
func IsNotFoundError(err error) bool {
	return repositories.IsNotFoundError(err)
}
