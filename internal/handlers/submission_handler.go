package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// SubmissionHandler covers task submissions, grading and the grades
// export.
type SubmissionHandler struct {
	BaseHandler
	submissions services.SubmissionService
	export      services.ExportService
}

func NewSubmissionHandler(submissions services.SubmissionService, export services.ExportService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler: NewBaseHandler(logger),
		submissions: submissions,
		export:      export,
	}
}

// Submit hands in a task. Multipart form with "content" and an
// optional "file". One submission per task per student.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	h.LogRequest(c, "SubmitTask")

	taskID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.SubmitTaskRequest
	if err := bindMultipartOrJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}
	req.File, _ = c.FormFile("file")

	submission, err := h.submissions.Submit(c.Request.Context(), taskID, studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListForTask returns submissions for one task. Professor only.
func (h *SubmissionHandler) ListForTask(c *gin.Context) {
	taskID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	filters := repositories.SubmissionFilters{
		Graded:    queryBool(c, "graded"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	result, err := h.submissions.ListForTask(c.Request.Context(), taskID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListMine returns the authenticated student's own submissions.
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	submissions, err := h.submissions.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// Get returns one submission. Students can only see their own.
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	submission, err := h.submissions.GetByID(c.Request.Context(), id, actor.ID, actor.Role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// Download streams a submission's uploaded file with its original
// filename.
func (h *SubmissionHandler) Download(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	absPath, downloadName, err := h.submissions.FilePath(c.Request.Context(), id, actor.ID, actor.Role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.FileAttachment(absPath, downloadName)
}

// Grade assigns a score and feedback. Re-grading overwrites.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	h.LogRequest(c, "GradeSubmission")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	graderID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	submission, err := h.submissions.Grade(c.Request.Context(), id, &req, graderID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ExportGrades downloads every graded submission as an xlsx workbook.
func (h *SubmissionHandler) ExportGrades(c *gin.Context) {
	h.LogRequest(c, "ExportGrades")

	data, err := h.export.ExportGrades(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("grades_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
