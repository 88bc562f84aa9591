package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is the body for operations with no payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// BaseHandler carries the shared logging and error translation used by
// every handler.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	utils.GetLogger(c, h.logger).Debug(msg)
}

// parseIDParam reads a positive integer path parameter, writing the 400
// itself on failure.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit/offset query parameters with sane caps.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// queryString returns a pointer to a non-empty query parameter.
func queryString(c *gin.Context, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// handleServiceError maps service errors to HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	var pe *services.PermissionError

	switch {
	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "resource not found"})

	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: ve.Error(), Details: ve})

	case errors.As(err, &pe):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: pe.Error()})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrAccountInactive),
		errors.Is(err, services.ErrSubscriptionExpired):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDuplicateSubmission):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrSubmissionClosed),
		errors.Is(err, services.ErrTaskInactive),
		errors.Is(err, services.ErrEmptySubmission),
		errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrProfessorImmutable):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})

	default:
		utils.GetLogger(c, h.logger).Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}
