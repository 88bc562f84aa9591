package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/storage"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

type videoService struct {
	repo          repositories.Repository
	store         *storage.LocalStore
	notifications NotificationService
	logger        *slog.Logger
	validator     *validator.Validator
}

func NewVideoService(repo repositories.Repository, store *storage.LocalStore, notifications NotificationService, logger *slog.Logger, validator *validator.Validator) VideoService {
	return &videoService{
		repo:          repo,
		store:         store,
		notifications: notifications,
		logger:        logger,
		validator:     validator,
	}
}

func (s *videoService) Create(ctx context.Context, req *CreateVideoRequest, file *multipart.FileHeader, authorID uint) (*models.Video, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}
	if req.VideoURL == "" && file == nil {
		return nil, NewValidationError("video", "needs a URL or an uploaded file", nil)
	}

	video := &models.Video{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Keywords:    req.Keywords,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		Active:      true,
		AuthorID:    authorID,
	}
	if video.Difficulty == "" {
		video.Difficulty = models.DifficultyMedium
	}
	if req.Active != nil {
		video.Active = *req.Active
	}

	if file != nil {
		path, err := s.store.SaveAttachment(file, "videos")
		if err != nil {
			return nil, fmt.Errorf("failed to store video file: %w", err)
		}
		video.FilePath = path
	}

	if err := s.repo.Video().Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.logger.Info("Video created", "video_id", video.ID, "title", video.Title)

	// Fan-out runs after the video is committed. Notification failure
	// never unpublishes content.
	if video.Active {
		if _, err := s.notifications.Broadcast(ctx,
			"New video lesson",
			fmt.Sprintf("New video available: %s", video.Title),
			models.NotificationVideo, &video.ID); err != nil {
			s.logger.Error("Failed to broadcast video notification", "error", err, "video_id", video.ID)
		}
	}

	return video, nil
}

func (s *videoService) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	return s.repo.Video().GetByID(ctx, id)
}

// GetWithComments loads a video for viewing and counts the view.
func (s *videoService) GetWithComments(ctx context.Context, id uint, viewerID uint) (*models.Video, error) {
	video, err := s.repo.Video().GetByIDWithComments(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Video().IncrementViews(ctx, id); err != nil {
		s.logger.Error("Failed to increment views", "error", err, "video_id", id)
	} else {
		video.Views++
	}

	return video, nil
}

func (s *videoService) Update(ctx context.Context, id uint, req *UpdateVideoRequest, actorID uint) (*models.Video, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	video, err := s.repo.Video().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := video.Active

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.VideoURL != nil {
		video.VideoURL = *req.VideoURL
	}
	if req.Keywords != nil {
		video.Keywords = *req.Keywords
	}
	if req.Category != nil {
		video.Category = *req.Category
	}
	if req.Difficulty != nil {
		video.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		video.Duration = *req.Duration
	}
	if req.Active != nil {
		video.Active = *req.Active
	}

	if err := s.repo.Video().Update(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	// Active videos re-announce after the update commits; activation
	// reads as a fresh publish to students.
	if video.Active {
		title, message := "Video updated", fmt.Sprintf("Video updated: %s", video.Title)
		if !wasActive {
			title, message = "New video lesson", fmt.Sprintf("New video available: %s", video.Title)
		}
		if _, err := s.notifications.Broadcast(ctx, title, message,
			models.NotificationVideo, &video.ID); err != nil {
			s.logger.Error("Failed to broadcast video notification", "error", err, "video_id", video.ID)
		}
	}

	return video, nil
}

func (s *videoService) Delete(ctx context.Context, id uint, actorID uint) error {
	video, err := s.repo.Video().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Video().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	if video.FilePath != "" {
		if err := s.store.Delete(video.FilePath); err != nil {
			s.logger.Error("Failed to delete video file", "error", err, "video_id", id)
		}
	}

	s.logger.Info("Video deleted", "video_id", id, "deleted_by", actorID)
	return nil
}

func (s *videoService) List(ctx context.Context, filters repositories.VideoFilters) (*VideoListResponse, error) {
	videos, total, err := s.repo.Video().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return &VideoListResponse{Videos: videos, Total: total}, nil
}

func (s *videoService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Video().GetCategories(ctx)
}

func (s *videoService) AddComment(ctx context.Context, videoID uint, req *AddCommentRequest, userID uint) (*models.Comment, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}

	// Verify the video exists before attaching a comment.
	if _, err := s.repo.Video().GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: req.Content,
		VideoID: videoID,
		UserID:  userID,
	}
	if err := s.repo.Comment().Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// DeleteComment allows the author or the professor to remove a comment.
func (s *videoService) DeleteComment(ctx context.Context, commentID uint, actorID uint, actorRole models.UserRole) error {
	comment, err := s.repo.Comment().GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != actorID && actorRole != models.RoleProfessor {
		return NewPermissionError(actorID, commentID, "comment", "delete", "not the author")
	}

	return s.repo.Comment().Delete(ctx, commentID)
}
