package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mancera-edu/classroom-service/internal/events"
	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/validator"
)

type messageService struct {
	repo           repositories.Repository
	notifications  NotificationService
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewMessageService(repo repositories.Repository, notifications NotificationService, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) MessageService {
	return &messageService{
		repo:           repo,
		notifications:  notifications,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *messageService) Send(ctx context.Context, fromUserID uint, req *SendMessageRequest) (*models.Message, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, NewValidationError(errs[0].Field, errs[0].Message, errs[0].Value)
	}
	if req.ToUserID == fromUserID {
		return nil, NewValidationError("to_user_id", "cannot message yourself", req.ToUserID)
	}

	recipient, err := s.repo.User().GetByID(ctx, req.ToUserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	message := &models.Message{
		Content:    req.Content,
		FromUserID: fromUserID,
		ToUserID:   recipient.ID,
	}
	if err := s.repo.Message().Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if err := s.notifications.Notify(ctx, recipient.ID,
		"New message",
		"You have a new message",
		models.NotificationMessage, &message.FromUserID); err != nil {
		s.logger.Error("Failed to notify message recipient", "error", err, "message_id", message.ID)
	}

	event := events.NewEvent(events.TypeMessageSent, map[string]interface{}{
		"message_id":   message.ID,
		"from_user_id": fromUserID,
		"to_user_id":   recipient.ID,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish message event", "error", err, "message_id", message.ID)
	}

	return message, nil
}

// Conversation returns the thread with one partner and marks the
// partner's messages as read.
func (s *messageService) Conversation(ctx context.Context, userID, partnerID uint, filters repositories.MessageFilters) (*ConversationResponse, error) {
	partner, err := s.repo.User().GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	messages, total, err := s.repo.Message().GetConversation(ctx, userID, partnerID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	if err := s.repo.Message().MarkConversationRead(ctx, userID, partnerID); err != nil {
		s.logger.Error("Failed to mark conversation read", "error", err, "user_id", userID, "partner_id", partnerID)
	}

	return &ConversationResponse{
		Partner:  partner,
		Messages: messages,
		Total:    total,
	}, nil
}

func (s *messageService) Conversations(ctx context.Context, userID uint) ([]repositories.ConversationSummary, error) {
	return s.repo.Message().GetConversationPartners(ctx, userID)
}

func (s *messageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.Message().CountUnread(ctx, userID)
}
