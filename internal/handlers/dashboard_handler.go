package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// DashboardHandler serves the professor and student dashboards.
type DashboardHandler struct {
	BaseHandler
	dashboards services.DashboardService
}

func NewDashboardHandler(dashboards services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		dashboards:  dashboards,
	}
}

// Professor returns course-wide statistics and recent submissions.
func (h *DashboardHandler) Professor(c *gin.Context) {
	dashboard, err := h.dashboards.ProfessorDashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// Student returns the requesting student's tasks, averages and unread
// counters.
func (h *DashboardHandler) Student(c *gin.Context) {
	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	dashboard, err := h.dashboards.StudentDashboard(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
