package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	sessions  *cache.SessionStore
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, sessions *cache.SessionStore, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		sessions:  sessions,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) CreateStudent(ctx context.Context, req *CreateStudentRequest, actorID uint) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	student := &models.User{
		Email:               req.Email,
		Name:                req.Name,
		Role:                models.RoleStudent,
		SubscriptionEndDate: req.SubscriptionEndDate,
		IsActive:            true,
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	student.BirthDate = req.BirthDate

	if err := student.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Student created",
		"student_id", student.ID,
		"email", student.Email,
		"created_by", actorID)

	return student, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.User().GetByID(ctx, id)
}

func (s *userService) UpdateStudent(ctx context.Context, id uint, req *UpdateStudentRequest, actorID uint) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	student, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, ErrProfessorImmutable
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		student.BirthDate = req.BirthDate
	}
	if req.SubscriptionEndDate != nil {
		student.SubscriptionEndDate = req.SubscriptionEndDate
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := student.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := s.repo.User().Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	// A deactivated student must not keep a live session.
	if req.IsActive != nil && !*req.IsActive {
		if err := s.sessions.DeleteAllForUser(ctx, student.ID); err != nil {
			s.logger.Error("Failed to end sessions of deactivated student",
				"error", err, "student_id", student.ID)
		}
	}

	s.logger.Info("Student updated", "student_id", id, "updated_by", actorID)
	return student, nil
}

// DeleteStudent removes the account. Submissions, comments, messages
// and notifications go with it through the database cascades.
func (s *userService) DeleteStudent(ctx context.Context, id uint, actorID uint) error {
	student, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if student.Role != models.RoleStudent {
		return NewPermissionError(actorID, id, "user", "delete", "only student accounts can be deleted")
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
		s.logger.Error("Failed to end sessions of deleted student", "error", err, "student_id", id)
	}

	s.logger.Info("Student deleted", "student_id", id, "deleted_by", actorID)
	return nil
}

func (s *userService) ListStudents(ctx context.Context, filters repositories.UserFilters) (*StudentListResponse, error) {
	role := models.RoleStudent
	filters.Role = &role

	students, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return &StudentListResponse{Students: students, Total: total}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		user.BirthDate = req.BirthDate
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return NewValidationError("current_password", "does not match", nil)
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.logger.Info("Password changed", "user_id", userID)
	return nil
}
