package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// NotificationHandler covers the per-user notification feed.
type NotificationHandler struct {
	BaseHandler
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:   NewBaseHandler(logger),
		notifications: notifications,
	}
}

// List returns the authenticated user's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	filters := repositories.NotificationFilters{
		Unread: queryBool(c, "unread"),
	}
	if raw := c.Query("type"); raw != "" {
		t := models.NotificationType(raw)
		filters.Type = &t
	}
	filters.Limit, filters.Offset = parsePagination(c)

	result, err := h.notifications.List(c.Request.Context(), userID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkRead marks one notification read. Scoped to the owner.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "notification marked read"})
}

// Delete removes one of the authenticated user's notifications.
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "notification deleted"})
}

// MarkAllRead marks every unread notification read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "all notifications marked read"})
}

// Broadcast sends a notification to every active student. Professor
// only.
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	h.LogRequest(c, "BroadcastNotification")

	var req struct {
		Title   string                  `json:"title" binding:"required"`
		Message string                  `json:"message" binding:"required"`
		Type    models.NotificationType `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = models.NotificationGeneral
	}

	count, err := h.notifications.Broadcast(c.Request.Context(), req.Title, req.Message, req.Type, nil)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipients": count})
}
