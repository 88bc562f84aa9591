package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

func newTestSubmissionService(t *testing.T, repo *mockRepository, publisher events.EventPublisher, notifier *mockNotifier) *submissionService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	return &submissionService{
		repo:           repo,
		store:          store,
		notifications:  notifier,
		eventPublisher: publisher,
		logger:         testLogger(),
		validator:      validator.New(),
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	activeTask := func(due time.Time, allowLate bool) *models.Task {
		return &models.Task{
			ID:                  10,
			Title:               "Essay one",
			DueDate:             due,
			TaskType:            models.TaskTypeRedacao,
			MaxScore:            1000,
			Status:              models.TaskStatusActive,
			AllowLateSubmission: allowLate,
		}
	}

	t.Run("inactive task rejected", func(t *testing.T) {
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) {
			task := activeTask(now.Add(time.Hour), true)
			task.Status = models.TaskStatusInactive
			return task, nil
		}
		svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

		_, err := svc.Submit(ctx, 10, 1, &SubmitTaskRequest{Content: "my answer"})
		if !errors.Is(err, ErrTaskInactive) {
			t.Errorf("Submit() = %v, want ErrTaskInactive", err)
		}
	})

	t.Run("empty submission rejected", func(t *testing.T) {
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return activeTask(now.Add(time.Hour), true), nil }
		svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

		_, err := svc.Submit(ctx, 10, 1, &SubmitTaskRequest{Content: "   "})
		if !errors.Is(err, ErrEmptySubmission) {
			t.Errorf("Submit() = %v, want ErrEmptySubmission", err)
		}
	})

	t.Run("second submission rejected", func(t *testing.T) {
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return activeTask(now.Add(time.Hour), true), nil }
		repo.submission.getByTaskAndStudent = func(taskID, studentID uint) (*models.TaskSubmission, error) {
			return &models.TaskSubmission{ID: 99, TaskID: taskID, StudentID: studentID}, nil
		}
		svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

		_, err := svc.Submit(ctx, 10, 1, &SubmitTaskRequest{Content: "again"})
		if !errors.Is(err, ErrDuplicateSubmission) {
			t.Errorf("Submit() = %v, want ErrDuplicateSubmission", err)
		}
	})

	t.Run("late submission rejected when not allowed", func(t *testing.T) {
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return activeTask(now.Add(-time.Hour), false), nil }
		repo.submission.getByTaskAndStudent = func(taskID, studentID uint) (*models.TaskSubmission, error) {
			return nil, repositories.ErrNotFound
		}
		svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

		_, err := svc.Submit(ctx, 10, 1, &SubmitTaskRequest{Content: "too late"})
		if !errors.Is(err, ErrSubmissionClosed) {
			t.Errorf("Submit() = %v, want ErrSubmissionClosed", err)
		}
	})

	t.Run("late submission accepted and flagged when allowed", func(t *testing.T) {
		var created *models.TaskSubmission
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return activeTask(now.Add(-time.Hour), true), nil }
		repo.submission.getByTaskAndStudent = func(taskID, studentID uint) (*models.TaskSubmission, error) {
			return nil, repositories.ErrNotFound
		}
		repo.submission.create = func(sub *models.TaskSubmission) error {
			sub.ID = 42
			created = sub
			return nil
		}
		publisher := events.NewMockEventPublisher(testLogger())
		svc := newTestSubmissionService(t, repo, publisher, &mockNotifier{})

		resp, err := svc.Submit(ctx, 10, 1, &SubmitTaskRequest{Content: "late answer"})
		if err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		if created == nil || !created.IsLate {
			t.Error("submission should be flagged late")
		}
		if resp.ScoreDisplay != "N/A" {
			t.Errorf("ungraded ScoreDisplay = %q, want N/A", resp.ScoreDisplay)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeSubmissionCreated {
			t.Errorf("expected one %s event, got %v", events.TypeSubmissionCreated, published)
		}
	})

	t.Run("professor gets a notification row", func(t *testing.T) {
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return activeTask(now.Add(time.Hour), false), nil }
		repo.submission.getByTaskAndStudent = func(taskID, studentID uint) (*models.TaskSubmission, error) {
			return nil, repositories.ErrNotFound
		}
		repo.submission.create = func(sub *models.TaskSubmission) error {
			sub.ID = 42
			return nil
		}
		repo.user.getProfessor = func() (*models.User, error) {
			return &models.User{ID: 3, Role: models.RoleProfessor}, nil
		}
		notifier := &mockNotifier{}
		svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), notifier)

		if _, err := svc.Submit(ctx, 10, 1, &SubmitTaskRequest{Content: "answer"}); err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		if len(notifier.notified) != 1 || notifier.notified[0] != 3 {
			t.Errorf("professor 3 should be notified of the submission, got %v", notifier.notified)
		}
	})

	t.Run("on-time submission not flagged late", func(t *testing.T) {
		var created *models.TaskSubmission
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return activeTask(now.Add(time.Hour), false), nil }
		repo.submission.getByTaskAndStudent = func(taskID, studentID uint) (*models.TaskSubmission, error) {
			return nil, repositories.ErrNotFound
		}
		repo.submission.create = func(sub *models.TaskSubmission) error {
			created = sub
			return nil
		}
		svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

		if _, err := svc.Submit(ctx, 10, 1, &SubmitTaskRequest{Content: "answer"}); err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		if created.IsLate {
			t.Error("on-time submission flagged late")
		}
	})
}

func TestGrade(t *testing.T) {
	ctx := context.Background()

	submissionFor := func(taskType models.TaskType) *models.TaskSubmission {
		return &models.TaskSubmission{
			ID:        42,
			TaskID:    10,
			StudentID: 7,
			Content:   "answer",
			Task: models.Task{
				ID:       10,
				Title:    "Essay one",
				TaskType: taskType,
				MaxScore: models.ScaleFor(taskType),
			},
		}
	}

	tests := []struct {
		name      string
		taskType  models.TaskType
		score     float64
		wantScore float64
	}{
		{"redacao within range", models.TaskTypeRedacao, 850, 850},
		{"redacao above ceiling clamps", models.TaskTypeRedacao, 1200, 1000},
		{"normal within range", models.TaskTypeNormal, 7.5, 7.5},
		{"normal above ceiling clamps", models.TaskTypeNormal, 12, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved *models.TaskSubmission
			repo := &mockRepository{}
			repo.submission.getByIDWithDetails = func(id uint) (*models.TaskSubmission, error) {
				return submissionFor(tt.taskType), nil
			}
			repo.submission.update = func(sub *models.TaskSubmission) error {
				saved = sub
				return nil
			}
			publisher := events.NewMockEventPublisher(testLogger())
			notifier := &mockNotifier{}
			svc := newTestSubmissionService(t, repo, publisher, notifier)

			resp, err := svc.Grade(ctx, 42, &GradeSubmissionRequest{Score: tt.score, Feedback: "ok"}, 1)
			if err != nil {
				t.Fatalf("Grade() error: %v", err)
			}
			if saved == nil || saved.Score == nil || *saved.Score != tt.wantScore {
				t.Errorf("saved score = %v, want %v", saved.Score, tt.wantScore)
			}
			if saved.GradedAt == nil {
				t.Error("GradedAt not set")
			}
			if resp.ScorePercentage == nil {
				t.Fatal("ScorePercentage is nil after grading")
			}
			wantPct := tt.wantScore / models.ScaleFor(tt.taskType) * 100
			if *resp.ScorePercentage != wantPct {
				t.Errorf("ScorePercentage = %v, want %v", *resp.ScorePercentage, wantPct)
			}

			if len(notifier.notified) != 1 || notifier.notified[0] != 7 {
				t.Errorf("student 7 should be notified, got %v", notifier.notified)
			}
			published := publisher.GetPublishedEvents()
			if len(published) != 1 || published[0].Type != events.TypeSubmissionGraded {
				t.Errorf("expected one %s event, got %d events", events.TypeSubmissionGraded, len(published))
			}
		})
	}

	t.Run("negative score rejected by validation", func(t *testing.T) {
		svc := newTestSubmissionService(t, &mockRepository{}, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

		_, err := svc.Grade(ctx, 42, &GradeSubmissionRequest{Score: -5}, 1)
		if !IsValidationError(err) {
			t.Errorf("Grade() = %v, want validation error", err)
		}
	})

	t.Run("re-grading overwrites the previous score", func(t *testing.T) {
		old := 500.0
		gradedAt := time.Now().Add(-time.Hour)
		sub := submissionFor(models.TaskTypeRedacao)
		sub.Score = &old
		sub.Feedback = "first pass"
		sub.GradedAt = &gradedAt

		var saved *models.TaskSubmission
		repo := &mockRepository{}
		repo.submission.getByIDWithDetails = func(id uint) (*models.TaskSubmission, error) { return sub, nil }
		repo.submission.update = func(s *models.TaskSubmission) error {
			saved = s
			return nil
		}
		svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

		if _, err := svc.Grade(ctx, 42, &GradeSubmissionRequest{Score: 720, Feedback: "better"}, 1); err != nil {
			t.Fatalf("Grade() error: %v", err)
		}
		if *saved.Score != 720 || saved.Feedback != "better" {
			t.Errorf("re-grade saved score=%v feedback=%q", *saved.Score, saved.Feedback)
		}
		if !saved.GradedAt.After(gradedAt) {
			t.Error("GradedAt should be refreshed on re-grade")
		}
	})
}

func TestSubmissionAccess(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{}
	repo.submission.getByIDWithDetails = func(id uint) (*models.TaskSubmission, error) {
		return &models.TaskSubmission{ID: id, TaskID: 10, StudentID: 7, Task: models.Task{TaskType: models.TaskTypeNormal}}, nil
	}
	svc := newTestSubmissionService(t, repo, events.NewMockEventPublisher(testLogger()), &mockNotifier{})

	if _, err := svc.GetByID(ctx, 42, 7, models.RoleStudent); err != nil {
		t.Errorf("owner should read own submission: %v", err)
	}
	if _, err := svc.GetByID(ctx, 42, 1, models.RoleProfessor); err != nil {
		t.Errorf("professor should read any submission: %v", err)
	}
	if _, err := svc.GetByID(ctx, 42, 8, models.RoleStudent); !IsPermissionError(err) {
		t.Errorf("other student should be denied, got %v", err)
	}
}
