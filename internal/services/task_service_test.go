package services

import (
	"context"
	"testing"
	"time"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

func newTestTaskService(t *testing.T, repo *mockRepository, notifier *mockNotifier) *taskService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	return &taskService{
		repo:          repo,
		store:         store,
		notifications: notifier,
		logger:        testLogger(),
		validator:     validator.New(),
	}
}

func TestCreateTaskScale(t *testing.T) {
	ctx := context.Background()
	due := time.Now().Add(7 * 24 * time.Hour)

	tests := []struct {
		name         string
		taskType     models.TaskType
		wantMaxScore float64
	}{
		{"normal task gets 0-10 scale", models.TaskTypeNormal, 10},
		{"redacao task gets 0-1000 scale", models.TaskTypeRedacao, 1000},
		{"missing type defaults to normal", models.TaskType(""), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *models.Task
			repo := &mockRepository{}
			repo.task.create = func(task *models.Task) error {
				task.ID = 1
				created = task
				return nil
			}
			svc := newTestTaskService(t, repo, &mockNotifier{})

			_, err := svc.Create(ctx, &CreateTaskRequest{
				Title:    "Week one",
				DueDate:  due,
				TaskType: tt.taskType,
			}, nil, 1)
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if created.MaxScore != tt.wantMaxScore {
				t.Errorf("MaxScore = %v, want %v", created.MaxScore, tt.wantMaxScore)
			}
			if created.Status != models.TaskStatusActive {
				t.Errorf("Status = %q, want active default", created.Status)
			}
		})
	}
}

func TestUpdateTaskTypeRescales(t *testing.T) {
	ctx := context.Background()

	newTask := func() *models.Task {
		return &models.Task{
			ID:       5,
			Title:    "Week one",
			DueDate:  time.Now().Add(24 * time.Hour),
			TaskType: models.TaskTypeNormal,
			MaxScore: 10,
			Status:   models.TaskStatusActive,
		}
	}

	t.Run("changing type rescales the ceiling", func(t *testing.T) {
		var saved *models.Task
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return newTask(), nil }
		repo.task.update = func(task *models.Task) error {
			saved = task
			return nil
		}
		svc := newTestTaskService(t, repo, &mockNotifier{})

		redacao := models.TaskTypeRedacao
		if _, err := svc.Update(ctx, 5, &UpdateTaskRequest{TaskType: &redacao}, 1); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if saved.TaskType != models.TaskTypeRedacao || saved.MaxScore != 1000 {
			t.Errorf("got type=%q max=%v, want redacao/1000", saved.TaskType, saved.MaxScore)
		}
	})

	t.Run("unrelated edit keeps the ceiling", func(t *testing.T) {
		var saved *models.Task
		repo := &mockRepository{}
		repo.task.getByID = func(id uint) (*models.Task, error) { return newTask(), nil }
		repo.task.update = func(task *models.Task) error {
			saved = task
			return nil
		}
		svc := newTestTaskService(t, repo, &mockNotifier{})

		title := "Week one, revised"
		if _, err := svc.Update(ctx, 5, &UpdateTaskRequest{Title: &title}, 1); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if saved.MaxScore != 10 {
			t.Errorf("MaxScore = %v, want unchanged 10", saved.MaxScore)
		}
		if saved.Title != title {
			t.Errorf("Title = %q, want %q", saved.Title, title)
		}
	})
}

func TestListForStudent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tasks := []*models.Task{
		{ID: 1, Title: "Open", DueDate: now.Add(time.Hour), Status: models.TaskStatusActive},
		{ID: 2, Title: "Submitted", DueDate: now.Add(time.Hour), Status: models.TaskStatusActive},
		{ID: 3, Title: "Closed late", DueDate: now.Add(-time.Hour), Status: models.TaskStatusActive, AllowLateSubmission: false},
		{ID: 4, Title: "Open late", DueDate: now.Add(-time.Hour), Status: models.TaskStatusActive, AllowLateSubmission: true},
	}

	repo := &mockRepository{}
	repo.task.getActive = func() ([]*models.Task, error) { return tasks, nil }
	repo.submission.getByStudent = func(studentID uint) ([]*models.TaskSubmission, error) {
		return []*models.TaskSubmission{{ID: 9, TaskID: 2, StudentID: studentID}}, nil
	}
	svc := newTestTaskService(t, repo, &mockNotifier{})

	result, err := svc.ListForStudent(ctx, 7)
	if err != nil {
		t.Fatalf("ListForStudent() error: %v", err)
	}
	if len(result) != 4 {
		t.Fatalf("got %d tasks, want 4", len(result))
	}

	byID := make(map[uint]*TaskWithSubmission, len(result))
	for _, tw := range result {
		byID[tw.Task.ID] = tw
	}

	if !byID[1].CanSubmit || byID[1].Submission != nil {
		t.Error("open task without submission should be submittable")
	}
	if byID[2].CanSubmit || byID[2].Submission == nil {
		t.Error("already-submitted task should not be submittable")
	}
	if byID[3].CanSubmit || !byID[3].IsPastDue {
		t.Error("past-due task without late allowance should be closed")
	}
	if !byID[4].CanSubmit || !byID[4].IsPastDue {
		t.Error("past-due task with late allowance should stay open")
	}
}
