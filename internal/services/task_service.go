package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

type taskService struct {
	repo          repositories.Repository
	store         *storage.LocalStore
	notifications NotificationService
	logger        *slog.Logger
	validator     *validator.Validator
}

func NewTaskService(repo repositories.Repository, store *storage.LocalStore, notifications NotificationService, logger *slog.Logger, validator *validator.Validator) TaskService {
	return &taskService{
		repo:          repo,
		store:         store,
		notifications: notifications,
		logger:        logger,
		validator:     validator,
	}
}

func (s *taskService) Create(ctx context.Context, req *CreateTaskRequest, attachment *multipart.FileHeader, authorID uint) (*models.Task, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	task := &models.Task{
		Title:               req.Title,
		Description:         req.Description,
		DueDate:             req.DueDate,
		TaskType:            req.TaskType,
		Status:              req.Status,
		AllowLateSubmission: req.AllowLateSubmission,
		ExternalLink:        req.ExternalLink,
		ExternalLinkType:    req.ExternalLinkType,
		AuthorID:            authorID,
	}
	if task.TaskType == "" {
		task.TaskType = models.TaskTypeNormal
	}
	if task.Status == "" {
		task.Status = models.TaskStatusActive
	}
	// The grading ceiling follows the task type, it is not client input.
	task.MaxScore = models.ScaleFor(task.TaskType)

	if attachment != nil {
		path, err := s.store.SaveAttachment(attachment, "tasks")
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		task.Attachment = path
	}

	if err := s.repo.Task().Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Task created",
		"task_id", task.ID,
		"task_type", task.TaskType,
		"due_date", task.DueDate)

	if task.Status == models.TaskStatusActive {
		if _, err := s.notifications.Broadcast(ctx,
			"New task assigned",
			fmt.Sprintf("New task: %s (due %s)", task.Title, task.DueDate.Format("2006-01-02")),
			models.NotificationTask, &task.ID); err != nil {
			s.logger.Error("Failed to broadcast task notification", "error", err, "task_id", task.ID)
		}
	}

	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	return s.repo.Task().GetByID(ctx, id)
}

func (s *taskService) Update(ctx context.Context, id uint, req *UpdateTaskRequest, actorID uint) (*models.Task, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	task, err := s.repo.Task().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.TaskType != nil && *req.TaskType != task.TaskType {
		task.TaskType = *req.TaskType
		task.MaxScore = models.ScaleFor(task.TaskType)
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.AllowLateSubmission != nil {
		task.AllowLateSubmission = *req.AllowLateSubmission
	}
	if req.ExternalLink != nil {
		task.ExternalLink = *req.ExternalLink
	}
	if req.ExternalLinkType != nil {
		task.ExternalLinkType = *req.ExternalLinkType
	}

	if err := s.repo.Task().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("Task updated", "task_id", id, "updated_by", actorID)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id uint, actorID uint) error {
	task, err := s.repo.Task().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Task().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if task.Attachment != "" {
		if err := s.store.Delete(task.Attachment); err != nil {
			s.logger.Error("Failed to delete task attachment", "error", err, "task_id", id)
		}
	}

	s.logger.Info("Task deleted", "task_id", id, "deleted_by", actorID)
	return nil
}

func (s *taskService) List(ctx context.Context, filters repositories.TaskFilters) (*TaskListResponse, error) {
	tasks, total, err := s.repo.Task().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return &TaskListResponse{Tasks: tasks, Total: total}, nil
}

// ListForStudent pairs every active task with the student's submission
// state so the client can render submit/resubmit/graded in one pass.
func (s *taskService) ListForStudent(ctx context.Context, studentID uint) ([]*TaskWithSubmission, error) {
	tasks, err := s.repo.Task().GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}

	submissions, err := s.repo.Submission().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	byTask := make(map[uint]*models.TaskSubmission, len(submissions))
	for _, sub := range submissions {
		byTask[sub.TaskID] = sub
	}

	now := time.Now()
	result := make([]*TaskWithSubmission, 0, len(tasks))
	for _, task := range tasks {
		sub := byTask[task.ID]
		pastDue := task.IsPastDue(now)
		result = append(result, &TaskWithSubmission{
			Task:       task,
			Submission: sub,
			IsPastDue:  pastDue,
			CanSubmit:  sub == nil && (!pastDue || task.AllowLateSubmission),
		})
	}
	return result, nil
}

// AttachmentPath resolves a task's stored attachment for download.
func (s *taskService) AttachmentPath(ctx context.Context, id uint) (string, string, error) {
	task, err := s.repo.Task().GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if task.Attachment == "" {
		return "", "", repositories.ErrNotFound
	}

	abs, err := s.store.Path(task.Attachment)
	if err != nil {
		return "", "", err
	}
	return abs, storage.OriginalName(task.Attachment), nil
}
