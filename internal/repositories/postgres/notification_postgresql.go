package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, notification *models.Notification) error {
	return n.db.WithContext(ctx).Create(notification).Error
}

func (n *NotificationPostgreSQL) CreateBatch(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return n.db.WithContext(ctx).CreateInBatches(notifications, 100).Error
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := n.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) ListByUser(ctx context.Context, userID uint, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID)
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Unread != nil {
		query = query.Where("read = ?", !*filters.Unread)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead scopes the update to the owner so one user cannot mark
// another user's notification.
func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, id, userID uint) error {
	result := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, userID uint) error {
	return n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// Delete is owner-scoped like MarkRead.
func (n *NotificationPostgreSQL) Delete(ctx context.Context, id, userID uint) error {
	result := n.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (n *NotificationPostgreSQL) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
