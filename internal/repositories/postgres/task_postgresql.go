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

type TaskPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewTaskPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.TaskRepository {
	return &TaskPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (t *TaskPostgreSQL) Create(ctx context.Context, task *models.Task) error {
	if err := t.db.WithContext(ctx).Create(task).Error; err != nil {
		return err
	}
	cache.InvalidateTaskCache(ctx, t.cacheManager, task.ID)
	return nil
}

func (t *TaskPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	cacheKey := fmt.Sprintf("tasks:id:%d", id)
	var task models.Task

	err := t.cacheManager.Fast.CacheOrExecute(ctx, cacheKey, &task, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var dbTask models.Task
		if err := t.db.WithContext(ctx).First(&dbTask, id).Error; err != nil {
			return nil, repositories.TranslateError(err)
		}
		return &dbTask, nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (t *TaskPostgreSQL) Update(ctx context.Context, task *models.Task) error {
	if err := t.db.WithContext(ctx).Save(task).Error; err != nil {
		return err
	}
	cache.InvalidateTaskCache(ctx, t.cacheManager, task.ID)
	return nil
}

func (t *TaskPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := t.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.InvalidateTaskCache(ctx, t.cacheManager, id)
	return nil
}

func (t *TaskPostgreSQL) List(ctx context.Context, filters repositories.TaskFilters) ([]*models.Task, int64, error) {
	var tasks []*models.Task
	var total int64

	query := t.db.WithContext(ctx).Model(&models.Task{})
	query = t.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "due_date"
	}
	sortOrder := filters.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	query = t.helpers.ApplyPaginationAndSort(query, sortBy, sortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (t *TaskPostgreSQL) GetActive(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := t.db.WithContext(ctx).
		Where("status = ?", models.TaskStatusActive).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (t *TaskPostgreSQL) applyFilters(query *gorm.DB, filters repositories.TaskFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.TaskType != nil {
		query = query.Where("task_type = ?", *filters.TaskType)
	}
	if filters.Query != "" {
		search := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}
	if filters.DueFrom != nil {
		query = query.Where("due_date >= ?", *filters.DueFrom)
	}
	if filters.DueTo != nil {
		query = query.Where("due_date <= ?", *filters.DueTo)
	}
	return query
}
