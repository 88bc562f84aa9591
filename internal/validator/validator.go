package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mancera-edu/classroom-service/internal/models"
)

// Validator wraps go-playground/validator with the domain rules used
// across services.
type Validator struct {
	validate *validator.Validate
}

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a slice of field errors that satisfies error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.registerRules()
	return v
}

// Validate runs struct validation and converts the result.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return toValidationErrors(err)
}

func (v *Validator) registerRules() {
	v.validate.RegisterValidation("task_type", func(fl validator.FieldLevel) bool {
		switch models.TaskType(fl.Field().String()) {
		case models.TaskTypeNormal, models.TaskTypeRedacao:
			return true
		}
		return false
	})

	v.validate.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		switch models.TaskStatus(fl.Field().String()) {
		case models.TaskStatusActive, models.TaskStatusInactive:
			return true
		}
		return false
	})

	v.validate.RegisterValidation("video_difficulty", func(fl validator.FieldLevel) bool {
		switch models.VideoDifficulty(fl.Field().String()) {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
			return true
		}
		return false
	})

	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch models.UserRole(fl.Field().String()) {
		case models.RoleProfessor, models.RoleStudent:
			return true
		}
		return false
	})

	v.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		if date, ok := fl.Field().Interface().(time.Time); ok {
			return date.After(time.Now())
		}
		return false
	})

	v.validate.RegisterValidation("past_date", func(fl validator.FieldLevel) bool {
		if date, ok := fl.Field().Interface().(time.Time); ok {
			return date.Before(time.Now())
		}
		return false
	})
}

func toValidationErrors(err error) ValidationErrors {
	var result ValidationErrors

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	for _, fe := range fieldErrors {
		result = append(result, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "task_type":
		return "must be a valid task type"
	case "task_status":
		return "must be a valid task status"
	case "video_difficulty":
		return "must be easy, medium or hard"
	case "user_role":
		return "must be professor or student"
	case "future_date":
		return "must be in the future"
	case "past_date":
		return "must be in the past"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
