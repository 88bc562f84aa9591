package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// UserHandler covers student administration and self-service profile
// endpoints.
type UserHandler struct {
	BaseHandler
	users services.UserService
}

func NewUserHandler(users services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		users:       users,
	}
}

// CreateStudent registers a new student account. Professor only.
func (h *UserHandler) CreateStudent(c *gin.Context) {
	h.LogRequest(c, "CreateStudent")

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	student, err := h.users.CreateStudent(c.Request.Context(), &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// ListStudents returns the student roster with optional filters.
func (h *UserHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "ListStudents")

	filters := repositories.UserFilters{
		IsActive: queryBool(c, "active"),
		Query:    c.Query("q"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	result, err := h.users.ListStudents(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStudent returns one student by ID.
func (h *UserHandler) GetStudent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// UpdateStudent edits a student account, including subscription dates
// and the active flag.
func (h *UserHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "UpdateStudent")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	student, err := h.users.UpdateStudent(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent removes a student and their authored content.
func (h *UserHandler) DeleteStudent(c *gin.Context) {
	h.LogRequest(c, "DeleteStudent")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.users.DeleteStudent(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "student deleted"})
}

// UpdateProfile lets the authenticated user edit their own profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	h.LogRequest(c, "UpdateProfile")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword verifies the current password before setting a new one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	h.LogRequest(c, "ChangePassword")

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
