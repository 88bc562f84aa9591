package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mancera-edu/classroom-service/internal/models"
	"github.com/mancera-edu/classroom-service/internal/repositories"
	"github.com/mancera-edu/classroom-service/internal/services"
	"github.com/mancera-edu/classroom-service/internal/utils"
)

// VideoHandler covers video lessons and their comments.
type VideoHandler struct {
	BaseHandler
	videos services.VideoService
}

func NewVideoHandler(videos services.VideoService, logger utils.Logger) *VideoHandler {
	return &VideoHandler{
		BaseHandler: NewBaseHandler(logger),
		videos:      videos,
	}
}

// Create publishes a video lesson. Accepts multipart form data with an
// optional "file" upload; the metadata rides in the "payload" field as
// JSON, or in plain form fields for simple clients.
func (h *VideoHandler) Create(c *gin.Context) {
	h.LogRequest(c, "CreateVideo")

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.CreateVideoRequest
	if err := bindMultipartOrJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	file, _ := c.FormFile("file")

	video, err := h.videos.Create(c.Request.Context(), &req, file, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, video)
}

// List returns videos with filtering, search and pagination.
func (h *VideoHandler) List(c *gin.Context) {
	filters := repositories.VideoFilters{
		Category:  queryString(c, "category"),
		Active:    queryBool(c, "active"),
		Query:     c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("difficulty"); raw != "" {
		d := models.VideoDifficulty(raw)
		filters.Difficulty = &d
	}
	filters.Limit, filters.Offset = parsePagination(c)

	result, err := h.videos.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns one video with its comment thread and bumps the view
// counter.
func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	viewerID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	video, err := h.videos.GetWithComments(c.Request.Context(), id, viewerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// Update edits a video's metadata.
func (h *VideoHandler) Update(c *gin.Context) {
	h.LogRequest(c, "UpdateVideo")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	video, err := h.videos.Update(c.Request.Context(), id, &req, actorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// Delete removes a video, its comments and any stored file.
func (h *VideoHandler) Delete(c *gin.Context) {
	h.LogRequest(c, "DeleteVideo")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.videos.Delete(c.Request.Context(), id, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "video deleted"})
}

// Categories lists the distinct categories in use.
func (h *VideoHandler) Categories(c *gin.Context) {
	categories, err := h.videos.Categories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// AddComment posts a comment on a video.
func (h *VideoHandler) AddComment(c *gin.Context) {
	h.LogRequest(c, "AddComment")

	videoID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	comment, err := h.videos.AddComment(c.Request.Context(), videoID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment. Authors can remove their own,
// professors can remove any.
func (h *VideoHandler) DeleteComment(c *gin.Context) {
	h.LogRequest(c, "DeleteComment")

	commentID, ok := h.parseIDParam(c, "commentId")
	if !ok {
		return
	}

	actor, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.videos.DeleteComment(c.Request.Context(), commentID, actor.ID, actor.Role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "comment deleted"})
}

// bindMultipartOrJSON accepts either a JSON body or a multipart form
// whose "payload" field carries the JSON document. Uploads have to be
// multipart, but plain metadata updates should not.
func bindMultipartOrJSON(c *gin.Context, out interface{}) error {
	if payload := c.PostForm("payload"); payload != "" {
		return json.Unmarshal([]byte(payload), out)
	}
	if c.ContentType() == "multipart/form-data" {
		return c.ShouldBind(out)
	}
	return c.ShouldBindJSON(out)
}
