package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type MessagePostgreSQL struct {
	db *gorm.DB
}

func NewMessagePostgreSQL(db *gorm.DB) repositories.MessageRepository {
	return &MessagePostgreSQL{db: db}
}

func (m *MessagePostgreSQL) Create(ctx context.Context, message *models.Message) error {
	return m.db.WithContext(ctx).Create(message).Error
}

func (m *MessagePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := m.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return nil, repositories.TranslateError(err)
	}
	return &message, nil
}

func (m *MessagePostgreSQL) GetConversation(ctx context.Context, userA, userB uint, filters repositories.MessageFilters) ([]*models.Message, int64, error) {
	var messages []*models.Message
	var total int64

	query := m.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA)
	if filters.Unread != nil {
		query = query.Where("read = ?", !*filters.Unread)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (m *MessagePostgreSQL) GetConversationPartners(ctx context.Context, userID uint) ([]repositories.ConversationSummary, error) {
	// One row per partner with the latest message and the count of
	// partner messages the user has not read yet.
	var summaries []repositories.ConversationSummary
	err := m.db.WithContext(ctx).Raw(`
		SELECT
			u.id              AS user_id,
			u.name            AS name,
			u.email           AS email,
			last.content      AS last_message,
			last.created_at   AS last_message_at,
			COALESCE(unread.cnt, 0) AS unread_count
		FROM (
			SELECT
				CASE WHEN from_user_id = @uid THEN to_user_id ELSE from_user_id END AS partner_id,
				MAX(id) AS last_id
			FROM messages
			WHERE from_user_id = @uid OR to_user_id = @uid
			GROUP BY partner_id
		) conv
		JOIN messages last ON last.id = conv.last_id
		JOIN users u ON u.id = conv.partner_id
		LEFT JOIN (
			SELECT from_user_id, COUNT(*) AS cnt
			FROM messages
			WHERE to_user_id = @uid AND read = FALSE
			GROUP BY from_user_id
		) unread ON unread.from_user_id = conv.partner_id
		ORDER BY last.created_at DESC
	`, map[string]interface{}{"uid": userID}).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (m *MessagePostgreSQL) MarkConversationRead(ctx context.Context, toUserID, fromUserID uint) error {
	return m.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("to_user_id = ? AND from_user_id = ? AND read = ?", toUserID, fromUserID, false).
		Update("read", true).Error
}

func (m *MessagePostgreSQL) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("to_user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
