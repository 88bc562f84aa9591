package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// TaskHandler covers graded task management (professor) and the
// student task list.
type TaskHandler struct {
	BaseHandler
	tasks services.TaskService
}

func NewTaskHandler(tasks services.TaskService, logger utils.Logger) *TaskHandler {
	return &TaskHandler{
		BaseHandler: NewBaseHandler(logger),
		tasks:       tasks,
	}
}

// Create publishes a graded task, optionally with an attachment.
func (h *TaskHandler) Create(c *gin.Context) {
	h.LogRequest(c, "CreateTask")

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.CreateTaskRequest
	if err := bindMultipartOrJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	attachment, _ := c.FormFile("file")

	task, err := h.tasks.Create(c.Request.Context(), &req, attachment, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List returns tasks with filtering and pagination. Professor view.
func (h *TaskHandler) List(c *gin.Context) {
	filters := repositories.TaskFilters{
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("status"); raw != "" {
		s := models.TaskStatus(raw)
		filters.Status = &s
	}
	if raw := c.Query("type"); raw != "" {
		t := models.TaskType(raw)
		filters.TaskType = &t
	}
	if raw := c.Query("due_from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.DueFrom = &t
		}
	}
	if raw := c.Query("due_to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.DueTo = &t
		}
	}
	filters.Limit, filters.Offset = parsePagination(c)

	result, err := h.tasks.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListForStudent returns active tasks paired with the requesting
// student's submission state.
func (h *TaskHandler) ListForStudent(c *gin.Context) {
	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	tasks, err := h.tasks.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Get returns one task by ID.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Attachment streams a task's attachment under its original name.
func (h *TaskHandler) Attachment(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	absPath, downloadName, err := h.tasks.AttachmentPath(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.FileAttachment(absPath, downloadName)
}

// Update edits a task. Changing the type also rescales its ceiling.
func (h *TaskHandler) Update(c *gin.Context) {
	h.LogRequest(c, "UpdateTask")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete removes a task and its submissions.
func (h *TaskHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "DeleteTask")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "task deleted"})
}
