package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// MessageHandler covers direct messages between the professor and
// students.
type MessageHandler struct {
	BaseHandler
	messages services.MessageService
}

func NewMessageHandler(messages services.MessageService, logger utils.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler: NewBaseHandler(logger),
		messages:    messages,
	}
}

// Send delivers a message to another user.
func (h *MessageHandler) Send(c *gin.Context) {
	h.LogRequest(c, "SendMessage")

	fromUserID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	message, err := h.messages.Send(c.Request.Context(), fromUserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Conversations lists chat partners with last message and unread
// counts.
func (h *MessageHandler) Conversations(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	conversations, err := h.messages.Conversations(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// Conversation returns the thread with one partner and marks their
// messages read.
func (h *MessageHandler) Conversation(c *gin.Context) {
	partnerID, ok := h.parseIDParam(c, "userId")
	if !ok {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	filters := repositories.MessageFilters{}
	filters.Limit, filters.Offset = parsePagination(c)

	conversation, err := h.messages.Conversation(c.Request.Context(), userID, partnerID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

// UnreadCount returns the number of unread messages for badges.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	count, err := h.messages.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
