package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

func newTestVideoService(t *testing.T, repo *mockRepository, notifier *mockNotifier) *videoService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	return &videoService{
		repo:          repo,
		store:         store,
		notifications: notifier,
		logger:        testLogger(),
		validator:     validator.New(),
	}
}

func TestVideoUpdateBroadcasts(t *testing.T) {
	ctx := context.Background()

	storedVideo := func(active bool) *models.Video {
		return &models.Video{
			ID:         5,
			Title:      "Crase basics",
			VideoURL:   "https://videos.example/crase",
			Difficulty: models.DifficultyMedium,
			Active:     active,
			AuthorID:   3,
		}
	}

	boolPtr := func(b bool) *bool { return &b }
	strPtr := func(s string) *string { return &s }

	t.Run("editing an active video re-announces it", func(t *testing.T) {
		repo := &mockRepository{}
		repo.video.getByID = func(id uint) (*models.Video, error) { return storedVideo(true), nil }
		repo.video.update = func(video *models.Video) error { return nil }
		notifier := &mockNotifier{}
		svc := newTestVideoService(t, repo, notifier)

		if _, err := svc.Update(ctx, 5, &UpdateVideoRequest{Title: strPtr("Crase, revised")}, 3); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if len(notifier.broadcasts) != 1 || notifier.broadcasts[0] != "Video updated" {
			t.Errorf("active-video edit should broadcast an update, got %v", notifier.broadcasts)
		}
	})

	t.Run("activating a video announces it as new", func(t *testing.T) {
		repo := &mockRepository{}
		repo.video.getByID = func(id uint) (*models.Video, error) { return storedVideo(false), nil }
		repo.video.update = func(video *models.Video) error { return nil }
		notifier := &mockNotifier{}
		svc := newTestVideoService(t, repo, notifier)

		if _, err := svc.Update(ctx, 5, &UpdateVideoRequest{Active: boolPtr(true)}, 3); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if len(notifier.broadcasts) != 1 || notifier.broadcasts[0] != "New video lesson" {
			t.Errorf("activation should broadcast like a fresh publish, got %v", notifier.broadcasts)
		}
	})

	t.Run("editing an inactive video stays silent", func(t *testing.T) {
		repo := &mockRepository{}
		repo.video.getByID = func(id uint) (*models.Video, error) { return storedVideo(false), nil }
		repo.video.update = func(video *models.Video) error { return nil }
		notifier := &mockNotifier{}
		svc := newTestVideoService(t, repo, notifier)

		if _, err := svc.Update(ctx, 5, &UpdateVideoRequest{Title: strPtr("Draft rework")}, 3); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if len(notifier.broadcasts) != 0 {
			t.Errorf("inactive video must not broadcast, got %v", notifier.broadcasts)
		}
	})

	t.Run("failed update does not broadcast", func(t *testing.T) {
		repo := &mockRepository{}
		repo.video.getByID = func(id uint) (*models.Video, error) { return storedVideo(true), nil }
		repo.video.update = func(video *models.Video) error { return fmt.Errorf("connection reset") }
		notifier := &mockNotifier{}
		svc := newTestVideoService(t, repo, notifier)

		if _, err := svc.Update(ctx, 5, &UpdateVideoRequest{Title: strPtr("Crase, revised")}, 3); err == nil {
			t.Fatal("Update() should surface the repository error")
		}
		if len(notifier.broadcasts) != 0 {
			t.Errorf("failed update must not broadcast, got %v", notifier.broadcasts)
		}
	})
}
