package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/njeri-dev/tafsiri/internal/middleware"
	"github.com/njeri-dev/tafsiri/internal/services"
	"github.com/njeri-dev/tafsiri/pkg/response"
)

type QAHandler struct {
	analyzer   *services.QualityAnalyzer
	moderation *services.ModerationService
}

func NewQAHandler(analyzer *services.QualityAnalyzer, moderation *services.ModerationService) *QAHandler {
	return &QAHandler{analyzer: analyzer, moderation: moderation}
}

// Analyze runs the quality checks on one contribution
// GET /api/qa/analyze/:id?detailed=true
func (h *QAHandler) Analyze(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid contribution id")
		return
	}

	detailed := c.DefaultQuery("detailed", "true") != "false"

	report, err := h.analyzer.Analyze(uint(id), detailed)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, report)
}

// BatchAnalyze summarizes quality across a set of contributions
// POST /api/qa/batch-analyze
func (h *QAHandler) BatchAnalyze(c *gin.Context) {
	var req services.BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.analyzer.BatchAnalyze(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ModerationQueue returns pending contributions ordered by review priority
// GET /api/qa/moderation-queue?priority=&limit=
func (h *QAHandler) ModerationQueue(c *gin.Context) {
	priority := c.Query("priority")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	items, err := h.moderation.ModerationQueue(priority, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"items": items,
		"total": len(items),
	})
}

type bulkModerationRequest struct {
	ContributionIDs []uint `json:"contribution_ids" binding:"required,min=1,max=500"`
	Reason          string `json:"reason"`
}

// BulkApprove approves every listed contribution that is pending and
// eligible for auto-approval
// POST /api/qa/bulk-approve
func (h *QAHandler) BulkApprove(c *gin.Context) {
	var req bulkModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	result := h.moderation.BulkApprove(req.ContributionIDs, req.Reason, userID)

	response.Success(c, gin.H{
		"batch_id":        result.BatchID,
		"approved_count":  result.SucceededCount,
		"skipped_count":   result.SkippedCount,
		"total_processed": result.TotalProcessed,
		"errors":          bulkErrorStrings(result.Errors),
	})
}

// BulkReject rejects every listed pending contribution
// POST /api/qa/bulk-reject
func (h *QAHandler) BulkReject(c *gin.Context) {
	var req bulkModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Reason == "" {
		response.BadRequest(c, "a rejection reason is required")
		return
	}

	userID := middleware.GetUserID(c)
	result := h.moderation.BulkReject(req.ContributionIDs, req.Reason, userID)

	response.Success(c, gin.H{
		"batch_id":        result.BatchID,
		"rejected_count":  result.SucceededCount,
		"skipped_count":   result.SkippedCount,
		"total_processed": result.TotalProcessed,
		"errors":          bulkErrorStrings(result.Errors),
	})
}

func bulkErrorStrings(errs []services.BulkItemError) []string {
	// Always a list in the JSON body, never null.
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.String())
	}
	return out
}

type autoFixRequest struct {
	ContributionID uint `json:"contribution_id" binding:"required"`
}

// AutoFix applies the automatic corrections (whitespace normalization)
// POST /api/qa/auto-fix
func (h *QAHandler) AutoFix(c *gin.Context) {
	var req autoFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	result, err := h.moderation.AutoFix(req.ContributionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Approve approves a single pending contribution
// POST /api/qa/approve/:id
func (h *QAHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject rejects a single pending contribution
// POST /api/qa/reject/:id
func (h *QAHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

type decisionRequest struct {
	Reason string `json:"reason"`
}

func (h *QAHandler) decide(c *gin.Context, approve bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid contribution id")
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if approve {
		err = h.moderation.Approve(uint(id), req.Reason, userID)
	} else {
		if req.Reason == "" {
			response.BadRequest(c, "a rejection reason is required")
			return
		}
		err = h.moderation.Reject(uint(id), req.Reason, userID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"contribution_id": uint(id)})
}
