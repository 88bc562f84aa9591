package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// MaterialHandler covers downloadable study materials.
type MaterialHandler struct {
	BaseHandler
	materials services.MaterialService
}

func NewMaterialHandler(materials services.MaterialService, logger utils.Logger) *MaterialHandler {
	return &MaterialHandler{
		BaseHandler: NewBaseHandler(logger),
		materials:   materials,
	}
}

// Create publishes a material, optionally with a file upload.
func (h *MaterialHandler) Create(c *gin.Context) {
	h.LogRequest(c, "CreateMaterial")

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.CreateMaterialRequest
	if err := bindMultipartOrJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	file, _ := c.FormFile("file")

	material, err := h.materials.Create(c.Request.Context(), &req, file, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, material)
}

// List returns materials with filtering, search and pagination.
func (h *MaterialHandler) List(c *gin.Context) {
	filters := repositories.MaterialFilters{
		Category:  queryString(c, "category"),
		FileType:  queryString(c, "file_type"),
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	result, err := h.materials.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns one material by ID.
func (h *MaterialHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	material, err := h.materials.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

// Update edits a material's metadata.
func (h *MaterialHandler) Update(c *gin.Context) {
	h.LogRequest(c, "UpdateMaterial")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	material, err := h.materials.Update(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

// Delete removes a material and its stored file.
func (h *MaterialHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "DeleteMaterial")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.materials.Delete(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "material deleted"})
}

// Download streams a material's stored file under its original name.
// Materials that only carry an external URL are redirected to it.
func (h *MaterialHandler) Download(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	material, err := h.materials.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if strings.HasPrefix(material.FileURL, "http") {
		c.Redirect(http.StatusFound, material.FileURL)
		return
	}

	absPath, downloadName, err := h.materials.FilePath(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.FileAttachment(absPath, downloadName)
}

// Categories lists the distinct categories in use.
func (h *MaterialHandler) Categories(c *gin.Context) {
	categories, err := h.materials.Categories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
