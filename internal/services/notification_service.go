package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
)

type notificationService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uint, title, message string, notifType models.NotificationType, referenceID *uint) error {
	notification := &models.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Type:        notifType,
		ReferenceID: referenceID,
	}
	if err := s.repo.Notification().Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Broadcast fans a notification out to every active student and returns
// the recipient count. Inactive and expired accounts are excluded by
// the active-students query.
func (s *notificationService) Broadcast(ctx context.Context, title, message string, notifType models.NotificationType, referenceID *uint) (int, error) {
	students, err := s.repo.User().GetActiveStudents(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load recipients: %w", err)
	}
	if len(students) == 0 {
		return 0, nil
	}

	notifications := make([]*models.Notification, 0, len(students))
	for _, student := range students {
		notifications = append(notifications, &models.Notification{
			UserID:      student.ID,
			Title:       title,
			Message:     message,
			Type:        notifType,
			ReferenceID: referenceID,
		})
	}

	if err := s.repo.Notification().CreateBatch(ctx, notifications); err != nil {
		return 0, fmt.Errorf("failed to create notifications: %w", err)
	}

	s.logger.Info("Notification broadcast",
		"type", notifType,
		"recipients", len(students),
		"title", title)

	// Broadcast rows are already committed; a failed event publish is
	// logged, never rolled back.
	event := events.NewEvent(eventTypeFor(notifType), events.NotificationFanOutEvent{
		NotificationType: string(notifType),
		Title:            title,
		ReferenceID:      referenceID,
		RecipientCount:   len(students),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish fan-out event", "error", err, "type", notifType)
	}

	return len(students), nil
}

func (s *notificationService) List(ctx context.Context, userID uint, filters repositories.NotificationFilters) (*NotificationListResponse, error) {
	notifications, total, err := s.repo.Notification().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.Notification().CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repo.Notification().MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.Notification().MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id, userID uint) error {
	return s.repo.Notification().Delete(ctx, id, userID)
}

func eventTypeFor(notifType models.NotificationType) string {
	switch notifType {
	case models.NotificationVideo:
		return events.TypeVideoPublished
	case models.NotificationMaterial:
		return events.TypeMaterialPublished
	case models.NotificationTask:
		return events.TypeTaskPublished
	case models.NotificationGrade:
		return events.TypeSubmissionGraded
	case models.NotificationMessage:
		return events.TypeMessageSent
	default:
		return "notification.broadcast"
	}
}
