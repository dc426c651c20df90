package services

import (
	"errors"
	"fmt"

	"github.com/njeri-dev/tafsiri/internal/config"
	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/pkg/logger"
	"github.com/njeri-dev/tafsiri/pkg/response"
	"gorm.io/gorm"
)

// Score deduction per issue severity.
const (
	deductionHigh   = 0.30
	deductionMedium = 0.15
	deductionLow    = 0.05
)

// duplicateScanLimit bounds how many existing contributions the duplicate
// check compares against on one analysis.
const duplicateScanLimit = 1000

// QualityReport is the aggregate analysis result for one contribution at one
// point in time. Never persisted; recomputed on demand.
type QualityReport struct {
	ContributionID      uint           `json:"contribution_id"`
	OverallScore        float64        `json:"overall_score"`
	Issues              []QualityIssue `json:"issues"`
	Recommendations     []string       `json:"recommendations"`
	AutoApproveEligible bool           `json:"auto_approve_eligible"`
	RequiresReview      bool           `json:"requires_review"`
}

// QualityAnalyzer orchestrates the text heuristics and metadata checks into a
// QualityReport.
type QualityAnalyzer struct {
	db         *gorm.DB
	heuristics *TextHeuristics
	cfg        *config.QAConfig
}

func NewQualityAnalyzer(db *gorm.DB, heuristics *TextHeuristics, cfg *config.QAConfig) *QualityAnalyzer {
	return &QualityAnalyzer{db: db, heuristics: heuristics, cfg: cfg}
}

// Analyze produces a QualityReport for the contribution. detailed=false skips
// the corpus-wide checks (spelling, duplicates) for cheap queue scoring.
func (a *QualityAnalyzer) Analyze(contributionID uint, detailed bool) (*QualityReport, error) {
	var contribution models.Contribution
	if err := a.db.Preload("Categories").First(&contribution, contributionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("contribution %d not found", contributionID))
		}
		return nil, err
	}

	issues := a.collectIssues(&contribution, detailed)
	return a.BuildReport(contributionID, issues), nil
}

func (a *QualityAnalyzer) collectIssues(c *models.Contribution, detailed bool) []QualityIssue {
	var issues []QualityIssue

	issues = append(issues, a.heuristics.CheckLengthBalance(c.SourceText, c.TargetText)...)
	issues = append(issues, a.heuristics.CheckInappropriate(c.SourceText)...)
	issues = append(issues, a.heuristics.CheckInappropriate(c.TargetText)...)
	issues = append(issues, a.heuristics.CheckFormatting(c.SourceText, c.TargetText)...)
	issues = append(issues, a.heuristics.CheckDifficultyConsistency(c.SourceText, c.DifficultyLevel)...)
	issues = append(issues, a.heuristics.CheckCategoryRelevance(c.Categories)...)
	issues = append(issues, a.heuristics.CheckContextCompleteness(c.SourceText, c.ContextNotes, c.CulturalNotes)...)

	if detailed {
		issues = append(issues, a.heuristics.CheckSpelling(c.SourceText)...)

		var existing []models.Contribution
		if err := a.db.
			Select("id", "source_text", "target_text").
			Where("status IN ? AND id <> ?", []string{models.StatusApproved, models.StatusPending}, c.ID).
			Limit(duplicateScanLimit).
			Order("id").
			Find(&existing).Error; err != nil {
			logger.Warn().Err(err).Uint("contribution_id", c.ID).Msg("duplicate scan failed, skipping check")
		} else {
			issues = append(issues, a.heuristics.CheckDuplicates(c, existing)...)
		}
	}

	return issues
}

// BuildReport folds issues into a report: the score starts at 1.0 and drops
// 0.30/0.15/0.05 per high/medium/low issue, clamped to [0,1].
func (a *QualityAnalyzer) BuildReport(contributionID uint, issues []QualityIssue) *QualityReport {
	score := 1.0
	highCount := 0
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityHigh:
			score -= deductionHigh
			highCount++
		case SeverityMedium:
			score -= deductionMedium
		case SeverityLow:
			score -= deductionLow
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return &QualityReport{
		ContributionID:      contributionID,
		OverallScore:        score,
		Issues:              issues,
		Recommendations:     buildRecommendations(issues, highCount),
		AutoApproveEligible: score >= a.cfg.AutoApproveThreshold && highCount == 0,
		RequiresReview:      score < a.cfg.ReviewThreshold,
	}
}

func buildRecommendations(issues []QualityIssue, highCount int) []string {
	if len(issues) == 0 {
		return []string{"Quality looks good"}
	}

	var recs []string
	if highCount > 0 {
		recs = append(recs, "Address high-priority issues before approval")
	}

	hasSpelling := false
	hasAutoFixable := false
	for _, issue := range issues {
		if issue.Type == IssueSpellingError {
			hasSpelling = true
		}
		if issue.AutoFixable {
			hasAutoFixable = true
		}
	}
	if hasSpelling {
		recs = append(recs, "Review and correct spelling errors")
	}
	if hasAutoFixable {
		recs = append(recs, "Some issues can be automatically fixed")
	}
	if len(recs) == 0 {
		recs = append(recs, "Review flagged issues")
	}
	return recs
}

// BatchAnalyzeRequest is the body of POST /api/qa/batch-analyze.
type BatchAnalyzeRequest struct {
	StatusFilter        string  `json:"status_filter"`
	Limit               int     `json:"limit" binding:"min=0,max=500"`
	MinQualityThreshold float64 `json:"min_quality_threshold"`
}

// BatchAnalyzeResult summarizes the quality of a set of contributions.
type BatchAnalyzeResult struct {
	TotalAnalyzed       int            `json:"total_analyzed"`
	HighQuality         int            `json:"high_quality"`   // score >= 0.8
	MediumQuality       int            `json:"medium_quality"` // 0.6 <= score < 0.8
	LowQuality          int            `json:"low_quality"`    // score < 0.6
	BelowThreshold      int            `json:"below_threshold"`
	AutoApproveEligible int            `json:"auto_approve_eligible"`
	RequiresReview      int            `json:"requires_review"`
	CommonIssues        map[string]int `json:"common_issues"` // issue types affecting >= 20% of items
	Recommendations     []string       `json:"recommendations"`
}

// BatchAnalyze analyzes up to limit contributions of the given status.
// Per-item analysis failures are logged and the item excluded.
func (a *QualityAnalyzer) BatchAnalyze(req *BatchAnalyzeRequest) (*BatchAnalyzeResult, error) {
	status := req.StatusFilter
	if status == "" {
		status = models.StatusPending
	}
	if _, err := models.ParseStatus(status); err != nil {
		return nil, response.NewBadRequest(err.Error())
	}

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var ids []uint
	if err := a.db.Model(&models.Contribution{}).
		Where("status = ?", status).
		Order("created_at").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	result := &BatchAnalyzeResult{CommonIssues: map[string]int{}}
	issueCounts := map[string]int{}

	for _, id := range ids {
		report, err := a.Analyze(id, true)
		if err != nil {
			logger.Warn().Err(err).Uint("contribution_id", id).Msg("batch analysis item failed, skipping")
			continue
		}
		result.TotalAnalyzed++

		switch {
		case report.OverallScore >= 0.8:
			result.HighQuality++
		case report.OverallScore >= 0.6:
			result.MediumQuality++
		default:
			result.LowQuality++
		}
		if report.OverallScore < req.MinQualityThreshold {
			result.BelowThreshold++
		}
		if report.AutoApproveEligible {
			result.AutoApproveEligible++
		}
		if report.RequiresReview {
			result.RequiresReview++
		}

		seen := map[string]bool{}
		for _, issue := range report.Issues {
			if !seen[issue.Type] {
				issueCounts[issue.Type]++
				seen[issue.Type] = true
			}
		}
	}

	// Keep only issue types affecting at least 20% of analyzed items.
	if result.TotalAnalyzed > 0 {
		for issueType, count := range issueCounts {
			if float64(count) >= 0.2*float64(result.TotalAnalyzed) {
				result.CommonIssues[issueType] = count
			}
		}
	}

	result.Recommendations = batchRecommendations(result)
	return result, nil
}

func batchRecommendations(r *BatchAnalyzeResult) []string {
	var recs []string
	if r.AutoApproveEligible > 0 {
		recs = append(recs, fmt.Sprintf("%d contribution(s) are eligible for auto-approval", r.AutoApproveEligible))
	}
	if r.RequiresReview > 0 {
		recs = append(recs, fmt.Sprintf("%d contribution(s) need manual review", r.RequiresReview))
	}
	for issueType := range r.CommonIssues {
		recs = append(recs, "Common issue across batch: "+issueType)
	}
	if len(recs) == 0 {
		recs = append(recs, "Batch quality looks good")
	}
	return recs
}
