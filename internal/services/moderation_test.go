package services

import (
	"testing"

	"github.com/njeri-dev/tafsiri/internal/models"
)

func TestPriorityFor(t *testing.T) {
	cases := []struct {
		report   QualityReport
		expected string
	}{
		{QualityReport{RequiresReview: true, OverallScore: 0.3}, PriorityHigh},
		{QualityReport{AutoApproveEligible: true, OverallScore: 0.95}, PriorityAuto},
		{QualityReport{OverallScore: 0.75}, PriorityMedium},
		{QualityReport{OverallScore: 0.65}, PriorityLow},
		// RequiresReview wins even with a decent score.
		{QualityReport{RequiresReview: true, OverallScore: 0.75}, PriorityHigh},
	}
	for _, c := range cases {
		if got := PriorityFor(&c.report); got != c.expected {
			t.Errorf("PriorityFor(%+v) = %q, expected %q", c.report, got, c.expected)
		}
	}
}

func TestSortQueue_PriorityOrder(t *testing.T) {
	items := []QueueItem{
		{ContributionID: 1, Priority: PriorityAuto, OverallScore: 0.99},
		{ContributionID: 2, Priority: PriorityLow, OverallScore: 0.65},
		{ContributionID: 3, Priority: PriorityHigh, OverallScore: 0.30},
		{ContributionID: 4, Priority: PriorityMedium, OverallScore: 0.75},
	}
	SortQueue(items)

	expected := []uint{3, 4, 2, 1}
	for i, id := range expected {
		if items[i].ContributionID != id {
			t.Fatalf("position %d: got contribution %d, expected %d (order %v)",
				i, items[i].ContributionID, id, items)
		}
	}
}

func TestSortQueue_ScoreBreaksTies(t *testing.T) {
	items := []QueueItem{
		{ContributionID: 1, Priority: PriorityHigh, OverallScore: 0.20},
		{ContributionID: 2, Priority: PriorityHigh, OverallScore: 0.50},
		{ContributionID: 3, Priority: PriorityHigh, OverallScore: 0.35},
	}
	SortQueue(items)

	if items[0].ContributionID != 2 || items[1].ContributionID != 3 || items[2].ContributionID != 1 {
		t.Errorf("same priority must sort by descending score, got %v", items)
	}
}

func TestDecideApprove(t *testing.T) {
	if code := DecideApprove(models.StatusPending, true); code != "" {
		t.Errorf("pending + eligible should approve, got code %q", code)
	}
	if code := DecideApprove(models.StatusApproved, true); code != BulkErrNotPending {
		t.Errorf("already approved should return %q, got %q", BulkErrNotPending, code)
	}
	if code := DecideApprove(models.StatusRejected, true); code != BulkErrNotPending {
		t.Errorf("rejected should return %q, got %q", BulkErrNotPending, code)
	}
	if code := DecideApprove(models.StatusPending, false); code != BulkErrNotEligible {
		t.Errorf("ineligible should return %q, got %q", BulkErrNotEligible, code)
	}
}

func TestBulkItemError_String(t *testing.T) {
	e := BulkItemError{ContributionID: 7, Code: BulkErrNotFound, Message: "contribution 7 not found"}
	if got := e.String(); got != "contribution 7: contribution 7 not found" {
		t.Errorf("String() = %q", got)
	}
}

func TestBulkResult_Skip(t *testing.T) {
	r := &BulkResult{}
	r.skip(5, BulkErrNotPending, "contribution 5 is approved")
	r.skip(6, BulkErrNotFound, "contribution 6 not found")

	if r.SkippedCount != 2 {
		t.Errorf("SkippedCount = %d, expected 2", r.SkippedCount)
	}
	if len(r.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(r.Errors))
	}
	if r.Errors[0].ContributionID != 5 || r.Errors[0].Code != BulkErrNotPending {
		t.Errorf("unexpected first error: %+v", r.Errors[0])
	}
}
