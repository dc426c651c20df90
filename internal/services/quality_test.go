package services

import (
	"math"
	"testing"
)

func testAnalyzer() *QualityAnalyzer {
	return &QualityAnalyzer{cfg: testQAConfig()}
}

func TestBuildReport_NoIssues(t *testing.T) {
	a := testAnalyzer()

	report := a.BuildReport(1, nil)
	if report.OverallScore != 1.0 {
		t.Errorf("no issues should score 1.0, got %f", report.OverallScore)
	}
	if !report.AutoApproveEligible {
		t.Error("a perfect score with no high issues should be auto-approve eligible")
	}
	if report.RequiresReview {
		t.Error("a perfect score should not require review")
	}
	if len(report.Recommendations) != 1 || report.Recommendations[0] != "Quality looks good" {
		t.Errorf("unexpected recommendations: %v", report.Recommendations)
	}
}

func TestBuildReport_Deductions(t *testing.T) {
	a := testAnalyzer()

	issues := []QualityIssue{
		{Type: IssueLengthMismatch, Severity: SeverityHigh},
		{Type: IssueDifficultyMismatch, Severity: SeverityMedium},
		{Type: IssueCategoryMismatch, Severity: SeverityLow},
	}
	report := a.BuildReport(2, issues)
	expected := 1.0 - 0.30 - 0.15 - 0.05
	if math.Abs(report.OverallScore-expected) > 1e-9 {
		t.Errorf("score = %f, expected %f", report.OverallScore, expected)
	}
}

func TestBuildReport_ScoreClampsAtZero(t *testing.T) {
	a := testAnalyzer()

	var issues []QualityIssue
	for i := 0; i < 5; i++ {
		issues = append(issues, QualityIssue{Type: IssueInappropriateContent, Severity: SeverityHigh})
	}
	report := a.BuildReport(3, issues)
	if report.OverallScore != 0.0 {
		t.Errorf("score must clamp to 0, got %f", report.OverallScore)
	}
	if !report.RequiresReview {
		t.Error("a zero score must require review")
	}
}

func TestBuildReport_HighIssueBlocksAutoApprove(t *testing.T) {
	a := testAnalyzer()

	// A single high issue scores 0.70: not eligible by score, and the
	// eligibility rule also requires zero high issues.
	report := a.BuildReport(4, []QualityIssue{{Type: IssueDuplicateContent, Severity: SeverityHigh}})
	if report.AutoApproveEligible {
		t.Error("a high-severity issue must block auto-approval")
	}

	// Two low issues score 0.90: above the threshold, no high issues.
	lows := []QualityIssue{
		{Severity: SeverityLow}, {Severity: SeverityLow},
	}
	report = a.BuildReport(5, lows)
	if !report.AutoApproveEligible {
		t.Errorf("score %f with no high issues meets the auto-approve threshold", report.OverallScore)
	}
}

func TestBuildReport_ReviewThreshold(t *testing.T) {
	a := testAnalyzer()

	// Two medium issues score 0.70: above the review threshold.
	issues := []QualityIssue{
		{Severity: SeverityMedium}, {Severity: SeverityMedium},
	}
	report := a.BuildReport(6, issues)
	if report.RequiresReview {
		t.Errorf("score %f above 0.6 should not require review", report.OverallScore)
	}

	// A third medium issue drops the score to 0.55.
	issues = append(issues, QualityIssue{Severity: SeverityMedium})
	report = a.BuildReport(6, issues)
	if !report.RequiresReview {
		t.Errorf("score %f below 0.6 must require review", report.OverallScore)
	}
}

func TestBuildRecommendations(t *testing.T) {
	issues := []QualityIssue{
		{Type: IssueSpellingError, Severity: SeverityMedium},
		{Type: IssueFormattingError, Severity: SeverityLow, AutoFixable: true},
		{Type: IssueLengthMismatch, Severity: SeverityHigh},
	}
	recs := buildRecommendations(issues, 1)

	expected := map[string]bool{
		"Address high-priority issues before approval": false,
		"Review and correct spelling errors":           false,
		"Some issues can be automatically fixed":       false,
	}
	for _, r := range recs {
		if _, ok := expected[r]; ok {
			expected[r] = true
		}
	}
	for msg, seen := range expected {
		if !seen {
			t.Errorf("missing recommendation %q in %v", msg, recs)
		}
	}
}

func TestBuildRecommendations_Fallback(t *testing.T) {
	issues := []QualityIssue{{Type: IssueCategoryMismatch, Severity: SeverityLow}}
	recs := buildRecommendations(issues, 0)
	if len(recs) != 1 || recs[0] != "Review flagged issues" {
		t.Errorf("expected fallback recommendation, got %v", recs)
	}
}
