package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/pkg/logger"
	"github.com/njeri-dev/tafsiri/pkg/response"
	"gorm.io/gorm"
)

// Moderation queue priorities, in processing order. Auto-approve-eligible
// items sort last: the gate can handle them without a human.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityAuto   = "auto"
)

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
	PriorityAuto:   3,
}

// Per-item error codes for bulk operations. Callers can branch on the code
// instead of parsing message text.
const (
	BulkErrNotFound    = "not_found"
	BulkErrNotPending  = "not_pending"
	BulkErrNotEligible = "not_eligible"
	BulkErrInternal    = "error"
)

// ModerationService turns quality reports into moderation actions.
type ModerationService struct {
	db       *gorm.DB
	analyzer *QualityAnalyzer
}

func NewModerationService(db *gorm.DB, analyzer *QualityAnalyzer) *ModerationService {
	return &ModerationService{db: db, analyzer: analyzer}
}

// QueueItem is one entry in the moderation queue.
type QueueItem struct {
	ContributionID      uint      `json:"contribution_id"`
	SourceText          string    `json:"source_text"`
	TargetText          string    `json:"target_text"`
	Priority            string    `json:"priority"`
	OverallScore        float64   `json:"overall_score"`
	IssueCount          int       `json:"issue_count"`
	AutoApproveEligible bool      `json:"auto_approve_eligible"`
	RequiresReview      bool      `json:"requires_review"`
	CreatedAt           time.Time `json:"created_at"`
}

// PriorityFor maps a quality report to a queue priority.
func PriorityFor(report *QualityReport) string {
	switch {
	case report.RequiresReview:
		return PriorityHigh
	case report.AutoApproveEligible:
		return PriorityAuto
	case report.OverallScore >= 0.7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// SortQueue orders items by priority rank (high, medium, low, auto), breaking
// ties by descending quality score.
func SortQueue(items []QueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := priorityRank[items[i].Priority], priorityRank[items[j].Priority]
		if ri != rj {
			return ri < rj
		}
		return items[i].OverallScore > items[j].OverallScore
	})
}

// ModerationQueue analyzes pending contributions in cheap mode and returns
// them priority-ordered. Items whose analysis fails are skipped.
func (s *ModerationService) ModerationQueue(priorityFilter string, limit int) ([]QueueItem, error) {
	if priorityFilter != "" {
		if _, ok := priorityRank[priorityFilter]; !ok {
			return nil, response.NewBadRequest(fmt.Sprintf("invalid priority filter: %q", priorityFilter))
		}
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var pending []models.Contribution
	if err := s.db.Where("status = ?", models.StatusPending).
		Order("created_at").
		Limit(500).
		Find(&pending).Error; err != nil {
		return nil, err
	}

	items := make([]QueueItem, 0, len(pending))
	for i := range pending {
		c := &pending[i]
		report, err := s.analyzer.Analyze(c.ID, false)
		if err != nil {
			logger.Warn().Err(err).Uint("contribution_id", c.ID).Msg("queue analysis failed, skipping item")
			continue
		}
		items = append(items, QueueItem{
			ContributionID:      c.ID,
			SourceText:          c.SourceText,
			TargetText:          c.TargetText,
			Priority:            PriorityFor(report),
			OverallScore:        report.OverallScore,
			IssueCount:          len(report.Issues),
			AutoApproveEligible: report.AutoApproveEligible,
			RequiresReview:      report.RequiresReview,
			CreatedAt:           c.CreatedAt,
		})
	}

	if priorityFilter != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.Priority == priorityFilter {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	SortQueue(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// BulkItemError records why a single id in a bulk operation was skipped.
type BulkItemError struct {
	ContributionID uint   `json:"contribution_id"`
	Code           string `json:"code"`
	Message        string `json:"message"`
}

func (e BulkItemError) String() string {
	return fmt.Sprintf("contribution %d: %s", e.ContributionID, e.Message)
}

// BulkResult reports the outcome of a bulk approve/reject. The batch always
// iterates every id; errors are per-item and never abort the loop. Each item
// is its own unit of work: there is deliberately no batch-wide transaction.
type BulkResult struct {
	BatchID        string          `json:"batch_id"`
	SucceededCount int             `json:"succeeded_count"`
	SkippedCount   int             `json:"skipped_count"`
	TotalProcessed int             `json:"total_processed"`
	Errors         []BulkItemError `json:"errors"`
}

// DecideApprove is the pure eligibility rule for one bulk-approve item.
// Returns "" when the item may be approved, or a BulkErr code.
func DecideApprove(status string, autoApproveEligible bool) string {
	if status != models.StatusPending {
		return BulkErrNotPending
	}
	if !autoApproveEligible {
		return BulkErrNotEligible
	}
	return ""
}

// BulkApprove approves every pending, auto-approve-eligible id in the list,
// writing one audit row per transition.
func (s *ModerationService) BulkApprove(ids []uint, reason string, actorID uint) *BulkResult {
	result := &BulkResult{BatchID: uuid.New().String()}

	for _, id := range ids {
		result.TotalProcessed++

		var contribution models.Contribution
		if err := s.db.First(&contribution, id).Error; err != nil {
			code := BulkErrInternal
			if errors.Is(err, gorm.ErrRecordNotFound) {
				code = BulkErrNotFound
			}
			result.skip(id, code, "not found")
			continue
		}

		report, err := s.analyzer.Analyze(id, true)
		if err != nil {
			result.skip(id, BulkErrInternal, "analysis failed: "+err.Error())
			continue
		}

		if code := DecideApprove(contribution.Status, report.AutoApproveEligible); code != "" {
			switch code {
			case BulkErrNotPending:
				result.skip(id, code, "status is "+contribution.Status+", not pending")
			case BulkErrNotEligible:
				result.skip(id, code, fmt.Sprintf("not eligible for auto-approval (score %.2f)", report.OverallScore))
			}
			continue
		}

		auditReason := fmt.Sprintf("%s (quality score %.2f)", reason, report.OverallScore)
		if err := s.transition(&contribution, models.StatusApproved, models.ActionApprove, auditReason, actorID, result.BatchID); err != nil {
			result.skip(id, BulkErrInternal, err.Error())
			continue
		}
		result.SucceededCount++
	}

	return result
}

// BulkReject rejects every pending id in the list. Unlike approval, rejection
// has no eligibility requirement.
func (s *ModerationService) BulkReject(ids []uint, reason string, actorID uint) *BulkResult {
	result := &BulkResult{BatchID: uuid.New().String()}

	for _, id := range ids {
		result.TotalProcessed++

		var contribution models.Contribution
		if err := s.db.First(&contribution, id).Error; err != nil {
			code := BulkErrInternal
			if errors.Is(err, gorm.ErrRecordNotFound) {
				code = BulkErrNotFound
			}
			result.skip(id, code, "not found")
			continue
		}

		if contribution.Status != models.StatusPending {
			result.skip(id, BulkErrNotPending, "status is "+contribution.Status+", not pending")
			continue
		}

		if err := s.transition(&contribution, models.StatusRejected, models.ActionReject, reason, actorID, result.BatchID); err != nil {
			result.skip(id, BulkErrInternal, err.Error())
			continue
		}
		result.SucceededCount++
	}

	return result
}

func (r *BulkResult) skip(id uint, code, message string) {
	r.SkippedCount++
	r.Errors = append(r.Errors, BulkItemError{ContributionID: id, Code: code, Message: message})
}

// transition moves a pending contribution to a terminal status and appends
// exactly one audit row, in one transaction per item.
func (s *ModerationService) transition(c *models.Contribution, status, action, reason string, actorID uint, batchID string) error {
	if !c.CanTransitionTo(status) {
		return fmt.Errorf("illegal transition %s → %s", c.Status, status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(c).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditLog{
			ContributionID: c.ID,
			UserID:         actorID,
			Action:         action,
			Reason:         reason,
			BatchID:        batchID,
		}).Error
	})
}

// AutoFixResult lists the fixes AutoFix applied.
type AutoFixResult struct {
	ContributionID     uint     `json:"contribution_id"`
	FixesApplied       []string `json:"fixes_applied"`
	QualityScoreBefore float64  `json:"quality_score_before"`
}

// AutoFix applies the currently detected auto-fixable issues (whitespace
// normalization). An empty fix list is still success.
func (s *ModerationService) AutoFix(contributionID uint, userID uint) (*AutoFixResult, error) {
	var contribution models.Contribution
	if err := s.db.First(&contribution, contributionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("contribution %d not found", contributionID))
		}
		return nil, err
	}

	report, err := s.analyzer.Analyze(contributionID, true)
	if err != nil {
		return nil, err
	}

	result := &AutoFixResult{
		ContributionID:     contributionID,
		QualityScoreBefore: report.OverallScore,
		FixesApplied:       []string{},
	}

	hasFixable := false
	for _, issue := range report.Issues {
		if issue.AutoFixable {
			hasFixable = true
			break
		}
	}
	if !hasFixable {
		return result, nil
	}

	updates := map[string]interface{}{}
	if fixed := NormalizeWhitespace(contribution.SourceText); fixed != contribution.SourceText {
		updates["source_text"] = fixed
		result.FixesApplied = append(result.FixesApplied, "normalized whitespace in source_text")
	}
	if fixed := NormalizeWhitespace(contribution.TargetText); fixed != contribution.TargetText {
		updates["target_text"] = fixed
		result.FixesApplied = append(result.FixesApplied, "normalized whitespace in target_text")
	}

	if len(updates) == 0 {
		return result, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&contribution).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditLog{
			ContributionID: contributionID,
			UserID:         userID,
			Action:         models.ActionAutoFix,
			Reason:         fmt.Sprintf("applied fixes: %v", result.FixesApplied),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Approve transitions a single pending contribution, for the manual moderator path.
func (s *ModerationService) Approve(id uint, reason string, actorID uint) error {
	return s.single(id, models.StatusApproved, models.ActionApprove, reason, actorID)
}

// Reject transitions a single pending contribution, for the manual moderator path.
func (s *ModerationService) Reject(id uint, reason string, actorID uint) error {
	return s.single(id, models.StatusRejected, models.ActionReject, reason, actorID)
}

func (s *ModerationService) single(id uint, status, action, reason string, actorID uint) error {
	var contribution models.Contribution
	if err := s.db.First(&contribution, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound(fmt.Sprintf("contribution %d not found", id))
		}
		return err
	}
	if !contribution.CanTransitionTo(status) {
		return response.NewConflict(fmt.Sprintf("contribution %d is %s, only pending contributions can be moderated", id, contribution.Status))
	}
	return s.transition(&contribution, status, action, reason, actorID, "")
}
