package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

type submissionService struct {
	repo           repositories.Repository
	store          *storage.LocalStore
	notifications  NotificationService
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewSubmissionService(repo repositories.Repository, store *storage.LocalStore, notifications NotificationService, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) SubmissionService {
	return &submissionService{
		repo:           repo,
		store:          store,
		notifications:  notifications,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

// Submit creates a student's one submission for a task. Lateness is
// computed once here and never recomputed.
func (s *submissionService) Submit(ctx context.Context, taskID, studentID uint, req *SubmitTaskRequest) (*SubmissionResponse, error) {
	task, err := s.repo.Task().GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusActive {
		return nil, ErrTaskInactive
	}

	if strings.TrimSpace(req.Content) == "" && req.File == nil {
		return nil, ErrEmptySubmission
	}

	if _, err := s.repo.Submission().GetByTaskAndStudent(ctx, taskID, studentID); err == nil {
		return nil, ErrDuplicateSubmission
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}

	now := time.Now()
	isLate := task.IsPastDue(now)
	if isLate && !task.AllowLateSubmission {
		return nil, ErrSubmissionClosed
	}

	submission := &models.TaskSubmission{
		TaskID:      taskID,
		StudentID:   studentID,
		Content:     req.Content,
		IsLate:      isLate,
		SubmittedAt: now,
	}

	if req.File != nil {
		path, err := s.store.SaveSubmission(req.File, studentID, taskID)
		if err != nil {
			if err == storage.ErrExtensionNotAllowed {
				return nil, NewValidationError("file", "file type not allowed", req.File.Filename)
			}
			return nil, fmt.Errorf("failed to store submission file: %w", err)
		}
		submission.FilePath = path
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		// The unique index backs up the pre-check under concurrency.
		if submission.FilePath != "" {
			s.store.Delete(submission.FilePath)
		}
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "idx_task_student") {
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.Info("Submission received",
		"submission_id", submission.ID,
		"task_id", taskID,
		"student_id", studentID,
		"is_late", isLate)

	// The professor gets a row after the submission commits, the same
	// way the student does on grading. Fan-out failure never undoes
	// the submission.
	if professor, err := s.repo.User().GetProfessor(ctx); err != nil {
		s.logger.Error("Failed to load professor for submission notification", "error", err, "submission_id", submission.ID)
	} else if err := s.notifications.Notify(ctx, professor.ID,
		"New submission",
		fmt.Sprintf("New submission received for %q", task.Title),
		models.NotificationTask, &taskID); err != nil {
		s.logger.Error("Failed to notify professor of submission", "error", err, "submission_id", submission.ID)
	}

	event := events.NewEvent(events.TypeSubmissionCreated, map[string]interface{}{
		"submission_id": submission.ID,
		"task_id":       taskID,
		"student_id":    studentID,
		"is_late":       isLate,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish submission event", "error", err, "submission_id", submission.ID)
	}

	return s.toResponse(submission, task.TaskType), nil
}

// Grade records a score for a submission. Re-grading overwrites the
// previous score and feedback. Scores are clamped to [0, scale].
func (s *submissionService) Grade(ctx context.Context, submissionID uint, req *GradeSubmissionRequest, graderID uint) (*SubmissionResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	taskType := submission.Task.TaskType

	score := models.ClampScore(req.Score, taskType)
	now := time.Now()

	submission.Score = &score
	submission.Feedback = req.Feedback
	submission.GradedAt = &now

	if err := s.repo.Submission().Update(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	s.logger.Info("Submission graded",
		"submission_id", submissionID,
		"score", score,
		"task_type", taskType,
		"graded_by", graderID)

	// Notify the student after the grade is committed.
	if err := s.notifications.Notify(ctx, submission.StudentID,
		"Task graded",
		fmt.Sprintf("Your submission for %q was graded: %s", submission.Task.Title, models.FormatScore(&score, taskType)),
		models.NotificationGrade, &submission.TaskID); err != nil {
		s.logger.Error("Failed to notify student of grade", "error", err, "submission_id", submissionID)
	}

	event := events.NewEvent(events.TypeSubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID: submissionID,
		TaskID:       submission.TaskID,
		StudentID:    submission.StudentID,
		Score:        score,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish grade event", "error", err, "submission_id", submissionID)
	}

	return s.toResponse(submission, taskType), nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint, actorID uint, actorRole models.UserRole) (*SubmissionResponse, error) {
	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != models.RoleProfessor && submission.StudentID != actorID {
		return nil, NewPermissionError(actorID, id, "submission", "read", "not the owner")
	}
	return s.toResponse(submission, submission.Task.TaskType), nil
}

func (s *submissionService) ListForTask(ctx context.Context, taskID uint, filters repositories.SubmissionFilters) (*SubmissionListResponse, error) {
	if _, err := s.repo.Task().GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	filters.TaskID = &taskID
	submissions, total, err := s.repo.Submission().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	responses := make([]*SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		responses = append(responses, s.toResponse(sub, sub.Task.TaskType))
	}
	return &SubmissionListResponse{Submissions: responses, Total: total}, nil
}

func (s *submissionService) ListForStudent(ctx context.Context, studentID uint) ([]*SubmissionResponse, error) {
	submissions, err := s.repo.Submission().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	responses := make([]*SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		responses = append(responses, s.toResponse(sub, sub.Task.TaskType))
	}
	return responses, nil
}

// FilePath resolves a submission's stored file for download. Students
// can only fetch their own files.
func (s *submissionService) FilePath(ctx context.Context, id uint, actorID uint, actorRole models.UserRole) (string, string, error) {
	submission, err := s.repo.Submission().GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if actorRole != models.RoleProfessor && submission.StudentID != actorID {
		return "", "", NewPermissionError(actorID, id, "submission", "download", "not the owner")
	}
	if submission.FilePath == "" {
		return "", "", repositories.ErrNotFound
	}

	abs, err := s.store.Path(submission.FilePath)
	if err != nil {
		return "", "", err
	}
	return abs, storage.OriginalName(submission.FilePath), nil
}

func (s *submissionService) toResponse(submission *models.TaskSubmission, taskType models.TaskType) *SubmissionResponse {
	resp := &SubmissionResponse{
		TaskSubmission:  submission,
		ScoreDisplay:    models.FormatScore(submission.Score, taskType),
		ScorePercentage: models.NormalizeScore(submission.Score, taskType),
	}
	if submission.FilePath != "" {
		resp.OriginalName = storage.OriginalName(submission.FilePath)
	}
	return resp
}
