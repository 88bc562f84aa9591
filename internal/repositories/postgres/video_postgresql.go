package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/cache"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type VideoPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewVideoPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.VideoRepository {
	return &VideoPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (v *VideoPostgreSQL) Create(ctx context.Context, video *models.Video) error {
	if err := v.db.WithContext(ctx).Create(video).Error; err != nil {
		return err
	}
	cache.InvalidateVideoCache(ctx, v.cacheManager, video.ID)
	return nil
}

func (v *VideoPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	cacheKey := fmt.Sprintf("videos:id:%d", id)
	var video models.Video

	err := v.cacheManager.Fast.CacheOrExecute(ctx, cacheKey, &video, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var dbVideo models.Video
		if err := v.db.WithContext(ctx).First(&dbVideo, id).Error; err != nil {
			return nil, repositories.TranslateError(err)
		}
		return &dbVideo, nil
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (v *VideoPostgreSQL) GetByIDWithComments(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := v.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.User").
		First(&video, id).Error
	if err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &video, nil
}

func (v *VideoPostgreSQL) Update(ctx context.Context, video *models.Video) error {
	if err := v.db.WithContext(ctx).Save(video).Error; err != nil {
		return err
	}
	cache.InvalidateVideoCache(ctx, v.cacheManager, video.ID)
	return nil
}

func (v *VideoPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := v.db.WithContext(ctx).Delete(&models.Video{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateVideoCache(ctx, v.cacheManager, id)
	return nil
}

func (v *VideoPostgreSQL) List(ctx context.Context, filters repositories.VideoFilters) ([]*models.Video, int64, error) {
	var videos []*models.Video
	var total int64

	query := v.db.WithContext(ctx).Model(&models.Video{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.Active != nil {
		query = query.Where("active = ?", *filters.Active)
	}
	if filters.Query != "" {
		search := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR keywords ILIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = v.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&videos).Error; err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

func (v *VideoPostgreSQL) IncrementViews(ctx context.Context, id uint) error {
	return v.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (v *VideoPostgreSQL) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := v.db.WithContext(ctx).
		Model(&models.Video{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}
