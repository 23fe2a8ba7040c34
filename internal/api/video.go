package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mehuldv/satsangtv/internal/db"
	"github.com/mehuldv/satsangtv/internal/ingest"
	"github.com/mehuldv/satsangtv/internal/logger"
	"github.com/mehuldv/satsangtv/internal/models"
	"github.com/mehuldv/satsangtv/internal/rotation"
)

// Request/Response DTOs

// BulkInsertRequest represents a bulk video submission
type BulkInsertRequest struct {
	Videos []ingest.Entry `json:"videos"`
}

// BulkInsertResponse reports the outcome of a bulk submission
type BulkInsertResponse struct {
	Message  string             `json:"message"`
	Accepted int                `json:"accepted"`
	Rejected []ingest.Rejection `json:"rejected"`
}

// VideoListResponse represents a paginated catalog listing
type VideoListResponse struct {
	Items  []*models.Video `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// MessageResponse carries a single human-readable message
type MessageResponse struct {
	Message string `json:"message"`
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// VideoHandler handles video-related API requests
type VideoHandler struct {
	rotationService *rotation.Service
	ingestService   *ingest.Service
	repos           *db.Repositories
}

// NewVideoHandler creates a new video handler instance
func NewVideoHandler(rotationService *rotation.Service, ingestService *ingest.Service, repos *db.Repositories) *VideoHandler {
	return &VideoHandler{
		rotationService: rotationService,
		ingestService:   ingestService,
		repos:           repos,
	}
}

// NextVideo handles GET /api/videos/next?category=C
func (h *VideoHandler) NextVideo(c *gin.Context) {
	category, ok := models.ParseCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{
			Message: fmt.Sprintf("Invalid category. Must be one of: %s", joinCategories()),
		})
		return
	}

	video, err := h.rotationService.SelectNext(c.Request.Context(), category)
	if err != nil {
		if rotation.IsNoVideos(err) {
			c.JSON(http.StatusNotFound, MessageResponse{
				Message: fmt.Sprintf("No %s videos available", category),
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("category", string(category)).
			Msg("Failed to select next video")
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// BulkInsert handles POST /api/videos/bulk (and the legacy /bulkInsert path)
func (h *VideoHandler) BulkInsert(c *gin.Context) {
	var req BulkInsertRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Videos) == 0 {
		c.JSON(http.StatusBadRequest, MessageResponse{
			Message: "Invalid input: videos array required",
		})
		return
	}

	report, err := h.ingestService.Ingest(c.Request.Context(), req.Videos)
	if err != nil {
		if ingest.IsEmptyBatch(err) {
			c.JSON(http.StatusBadRequest, MessageResponse{
				Message: "Invalid input: videos array required",
			})
			return
		}
		// Storage failure: the batch rolled back, the message names the URLs
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: err.Error()})
		return
	}

	rejected := report.Rejected
	if rejected == nil {
		rejected = []ingest.Rejection{}
	}

	c.JSON(http.StatusCreated, BulkInsertResponse{
		Message:  "Videos added successfully",
		Accepted: report.Accepted,
		Rejected: rejected,
	})
}

// MarkPrivate handles PUT /api/videos/:id/private
func (h *VideoHandler) MarkPrivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid video ID"})
		return
	}

	video, err := h.rotationService.MarkPrivate(c.Request.Context(), id)
	if err != nil {
		if rotation.IsVideoNotFound(err) {
			c.JSON(http.StatusNotFound, MessageResponse{Message: "Video not found"})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to mark video private")
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// ListVideos handles GET /api/videos
func (h *VideoHandler) ListVideos(c *gin.Context) {
	limit := parseIntQuery(c, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	videos, err := h.repos.Videos.List(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list videos")
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		return
	}

	total, err := h.repos.Videos.Count(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count videos")
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, VideoListResponse{
		Items:  videos,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// SetupVideoRoutes registers video routes
func SetupVideoRoutes(apiGroup *gin.RouterGroup, rotationService *rotation.Service, ingestService *ingest.Service, repos *db.Repositories) {
	handler := NewVideoHandler(rotationService, ingestService, repos)

	apiGroup.GET("/videos", handler.ListVideos)
	apiGroup.GET("/videos/next", handler.NextVideo)
	apiGroup.POST("/videos/bulk", handler.BulkInsert)
	// Path used by the original admin frontend
	apiGroup.POST("/videos/bulkInsert", handler.BulkInsert)
	apiGroup.PUT("/videos/:id/private", handler.MarkPrivate)
}

func joinCategories() string {
	names := make([]string, len(models.Categories))
	for i, cat := range models.Categories {
		names[i] = string(cat)
	}
	return strings.Join(names, ", ")
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
