package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/njeri-dev/tafsiri/internal/middleware"
	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/internal/services"
	"github.com/njeri-dev/tafsiri/pkg/response"
)

type ContentRatingHandler struct {
	ratingService *services.ContentRatingService
}

func NewContentRatingHandler(ratingService *services.ContentRatingService) *ContentRatingHandler {
	return &ContentRatingHandler{ratingService: ratingService}
}

type analyzeTextRequest struct {
	SourceText   string `json:"source_text" binding:"required"`
	TargetText   string `json:"target_text"`
	ContextNotes string `json:"context_notes"`
}

// AnalyzeText classifies raw text without persisting anything
// POST /api/content-rating/analyze
func (h *ContentRatingHandler) AnalyzeText(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := h.ratingService.AnalyzeText(req.SourceText, req.TargetText, req.ContextNotes)
	response.Success(c, result)
}

type rateRequest struct {
	ContributionID uint     `json:"contribution_id" binding:"required"`
	ContentRating  string   `json:"content_rating" binding:"required"`
	Warnings       []string `json:"warnings"`
	Reason         string   `json:"reason"`
}

// Rate records a moderator's rating decision for a contribution
// POST /api/content-rating/rate
func (h *ContentRatingHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reviewerID := middleware.GetUserID(c)
	rating, err := h.ratingService.Rate(&services.RateRequest{
		ContributionID: req.ContributionID,
		ContentRating:  req.ContentRating,
		Warnings:       req.Warnings,
		Reason:         req.Reason,
		ReviewerID:     &reviewerID,
		AutoRated:      false,
		Confidence:     100,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, rating)
}

// AutoRate classifies and rates one contribution
// POST /api/content-rating/auto-rate/:id
func (h *ContentRatingHandler) AutoRate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid contribution id")
		return
	}

	queue := services.GetTaskQueue()
	if queue != nil && queue.IsAsync() {
		if err := queue.Enqueue(&services.AutoRateTask{ContributionID: uint(id)}); err == nil {
			response.Success(c, gin.H{
				"contribution_id": uint(id),
				"queued":          true,
			})
			return
		}
		// Fall through to synchronous rating when the queue is unreachable.
	}

	rating, err := h.ratingService.AutoRate(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, rating)
}

type bulkAutoRateRequest struct {
	Limit        int    `json:"limit" binding:"min=0,max=500"`
	StatusFilter string `json:"status_filter"`
}

// BulkAutoRate rates all unrated contributions of a status, up to a limit
// POST /api/content-rating/bulk-auto-rate
func (h *ContentRatingHandler) BulkAutoRate(c *gin.Context) {
	var req bulkAutoRateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.ratingService.BulkAutoRate(req.Limit, req.StatusFilter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetFilter returns the caller's content filter preferences
// GET /api/content-rating/filters
func (h *ContentRatingHandler) GetFilter(c *gin.Context) {
	userID := middleware.GetUserID(c)
	filter := h.ratingService.GetFilter(userID)

	response.Success(c, gin.H{
		"max_content_rating": filter.MaxContentRating,
		"hide_adult_content": filter.HideAdultContent,
		"hidden_warnings":    models.SplitWarnings(filter.HiddenWarnings),
	})
}

type setFilterRequest struct {
	MaxContentRating string   `json:"max_content_rating" binding:"required"`
	HideAdultContent bool     `json:"hide_adult_content"`
	HiddenWarnings   []string `json:"hidden_warnings"`
}

// SetFilter stores the caller's content filter preferences
// POST /api/content-rating/filters
func (h *ContentRatingHandler) SetFilter(c *gin.Context) {
	var req setFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	filter, err := h.ratingService.SetFilter(userID, req.MaxContentRating, req.HideAdultContent, req.HiddenWarnings)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"max_content_rating": filter.MaxContentRating,
		"hide_adult_content": filter.HideAdultContent,
		"hidden_warnings":    models.SplitWarnings(filter.HiddenWarnings),
	})
}

// FilteredContributions lists contributions the caller's filter allows
// GET /api/content-rating/contributions/filtered?page=&limit=&status=
func (h *ContentRatingHandler) FilteredContributions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")

	userID := middleware.GetUserID(c)
	resp, err := h.ratingService.FilteredContributions(userID, page, limit, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Statistics summarizes the rating distribution
// GET /api/content-rating/statistics
func (h *ContentRatingHandler) Statistics(c *gin.Context) {
	stats, err := h.ratingService.Statistics()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, stats)
}
