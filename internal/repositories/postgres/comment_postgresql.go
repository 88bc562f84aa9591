package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type CommentPostgreSQL struct {
	db *gorm.DB
}

func NewCommentPostgreSQL(db *gorm.DB) repositories.CommentRepository {
	return &CommentPostgreSQL{db: db}
}

func (c *CommentPostgreSQL) Create(ctx context.Context, comment *models.Comment) error {
	return c.db.WithContext(ctx).Create(comment).Error
}

func (c *CommentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := c.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &comment, nil
}

func (c *CommentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (c *CommentPostgreSQL) ListByVideo(ctx context.Context, videoID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := c.db.WithContext(ctx).
		Preload("User").
		Where("video_id = ?", videoID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
