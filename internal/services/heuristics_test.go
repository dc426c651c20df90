package services

import (
	"strings"
	"testing"

	"github.com/njeri-dev/tafsiri/internal/config"
	"github.com/njeri-dev/tafsiri/internal/models"
)

func testQAConfig() *config.QAConfig {
	return &config.QAConfig{
		AutoApproveThreshold:   0.85,
		ReviewThreshold:        0.6,
		NearDuplicateThreshold: 0.95,
		FuzzySuggestThreshold:  0.7,
	}
}

func testHeuristics() *TextHeuristics {
	return NewTextHeuristics(trainedChecker(), testQAConfig())
}

func TestCheckSpelling_CleanText(t *testing.T) {
	h := testHeuristics()
	if issues := h.CheckSpelling("wĩ mwega mũno"); len(issues) != 0 {
		t.Errorf("known words should produce no issues, got %v", issues)
	}
}

func TestCheckSpelling_SeverityScalesWithCount(t *testing.T) {
	h := testHeuristics()

	issues := h.CheckSpelling("mwega zzzz")
	if len(issues) != 1 || issues[0].Severity != SeverityLow {
		t.Errorf("one unknown word should be a single low issue, got %v", issues)
	}

	issues = h.CheckSpelling("zzzz yyyy mwega")
	if len(issues) != 1 || issues[0].Severity != SeverityMedium {
		t.Errorf("two unknown words should be medium, got %v", issues)
	}

	issues = h.CheckSpelling("zzzz yyyy xxxx wwww")
	if len(issues) != 1 || issues[0].Severity != SeverityHigh {
		t.Errorf("four unknown words should be high, got %v", issues)
	}
}

func TestCheckSpelling_UntrainedCheckerIsSilent(t *testing.T) {
	h := NewTextHeuristics(NewSpellChecker(0.7), testQAConfig())
	if issues := h.CheckSpelling("anything at all"); issues != nil {
		t.Errorf("empty vocabulary should disable the check, got %v", issues)
	}
}

func TestCheckLengthBalance_EmptyText(t *testing.T) {
	h := testHeuristics()

	issues := h.CheckLengthBalance("", "mwega")
	if len(issues) != 1 {
		t.Fatalf("empty source should produce one issue, got %d", len(issues))
	}
	if issues[0].Severity != SeverityHigh {
		t.Errorf("empty text is high severity, got %q", issues[0].Severity)
	}
	if issues[0].Type != IssueLengthMismatch {
		t.Errorf("issue type = %q, expected %q", issues[0].Type, IssueLengthMismatch)
	}
}

func TestCheckLengthBalance_Ratios(t *testing.T) {
	h := testHeuristics()

	if issues := h.CheckLengthBalance("good morning", "we mwega"); len(issues) != 0 {
		t.Errorf("balanced lengths should pass, got %v", issues)
	}

	// ratio 5: flagged, but not extreme
	issues := h.CheckLengthBalance(strings.Repeat("a", 10), "ab")
	if len(issues) != 1 || issues[0].Severity != SeverityMedium {
		t.Errorf("ratio 5 should be a medium issue, got %v", issues)
	}

	// ratio 10: extreme
	issues = h.CheckLengthBalance(strings.Repeat("a", 20), "ab")
	if len(issues) != 1 || issues[0].Severity != SeverityHigh {
		t.Errorf("ratio 10 should be a high issue, got %v", issues)
	}
}

func TestCheckDuplicates_ExactMatch(t *testing.T) {
	h := testHeuristics()

	candidate := &models.Contribution{ID: 10, SourceText: "Good morning", TargetText: "We mwega rũcinĩ"}
	existing := []models.Contribution{
		{ID: 3, SourceText: "GOOD MORNING", TargetText: "different"},
	}

	issues := h.CheckDuplicates(candidate, existing)
	if len(issues) != 1 {
		t.Fatalf("expected one duplicate issue, got %d", len(issues))
	}
	if issues[0].Severity != SeverityHigh {
		t.Errorf("exact duplicate should be high severity, got %q", issues[0].Severity)
	}
	if !strings.Contains(issues[0].Message, "3") {
		t.Errorf("message should reference the duplicate id, got %q", issues[0].Message)
	}
}

func TestCheckDuplicates_NearDuplicate(t *testing.T) {
	h := testHeuristics()

	candidate := &models.Contribution{ID: 10, SourceText: "wĩ mwega mũno mũrata wakwa", TargetText: "how are you my friend"}
	existing := []models.Contribution{
		{ID: 4, SourceText: "wĩ mwega mũno mũrata wakwa!", TargetText: "greetings to you my friend"},
	}

	issues := h.CheckDuplicates(candidate, existing)
	if len(issues) != 1 {
		t.Fatalf("expected a near-duplicate issue, got %d", len(issues))
	}
	if issues[0].Severity != SeverityMedium {
		t.Errorf("near-duplicate should be medium severity, got %q", issues[0].Severity)
	}
}

func TestCheckDuplicates_IgnoresSelfAndUnrelated(t *testing.T) {
	h := testHeuristics()

	candidate := &models.Contribution{ID: 10, SourceText: "wĩ mwega", TargetText: "good morning"}
	existing := []models.Contribution{
		{ID: 10, SourceText: "wĩ mwega", TargetText: "good morning"}, // self
		{ID: 5, SourceText: "nyũmba nene", TargetText: "a big house"},
	}

	if issues := h.CheckDuplicates(candidate, existing); len(issues) != 0 {
		t.Errorf("self row and unrelated text should not flag, got %v", issues)
	}
}

func TestCheckInappropriate(t *testing.T) {
	h := testHeuristics()

	cases := []struct {
		text string
		flag bool
	}{
		{"wĩ mwega mũrata", false},
		{"this is spam content", true},
		{"aaaaaaa", true}, // repeated character run
		{"ab", true},      // too short
		{"asdfasdf ok", false},
		{"asdff", true},
	}
	for _, c := range cases {
		issues := h.CheckInappropriate(c.text)
		if c.flag && len(issues) != 1 {
			t.Errorf("CheckInappropriate(%q) should flag exactly one issue, got %v", c.text, issues)
		}
		if !c.flag && len(issues) != 0 {
			t.Errorf("CheckInappropriate(%q) should pass, got %v", c.text, issues)
		}
		if c.flag && len(issues) == 1 && issues[0].Severity != SeverityHigh {
			t.Errorf("inappropriate content is always high severity, got %q", issues[0].Severity)
		}
	}
}

func TestCheckFormatting(t *testing.T) {
	h := testHeuristics()

	if issues := h.CheckFormatting("wĩ mwega", "good morning"); len(issues) != 0 {
		t.Errorf("clean text should pass, got %v", issues)
	}

	issues := h.CheckFormatting("  wĩ mwega", "good    morning")
	if len(issues) != 2 {
		t.Fatalf("both fields have anomalies, expected 2 issues, got %d", len(issues))
	}
	for _, issue := range issues {
		if !issue.AutoFixable {
			t.Errorf("formatting issues must be auto-fixable: %v", issue)
		}
		if issue.Severity != SeverityLow {
			t.Errorf("formatting issues are low severity, got %q", issue.Severity)
		}
	}
}

func TestEstimateDifficulty(t *testing.T) {
	cases := []struct {
		text     string
		expected string
	}{
		{"wĩ mwega", models.DifficultyBeginner},
		{"nĩ ngaatho mũno mũrata", models.DifficultyIntermediate},
		{"mũgambo wa andũ aingĩ nĩguo ũrĩa wa ngai na nĩ kĩhooto gĩa bũrũri", models.DifficultyAdvanced},
	}
	for _, c := range cases {
		got, confidence := EstimateDifficulty(c.text)
		if got != c.expected {
			t.Errorf("EstimateDifficulty(%q) = %q, expected %q", c.text, got, c.expected)
		}
		if confidence <= 0 || confidence > 1 {
			t.Errorf("confidence %f out of range for %q", confidence, c.text)
		}
	}
}

func TestCheckDifficultyConsistency(t *testing.T) {
	h := testHeuristics()

	// Two short words estimate beginner with confidence 0.9; declaring
	// advanced is a confident mismatch.
	issues := h.CheckDifficultyConsistency("wĩ mwega", models.DifficultyAdvanced)
	if len(issues) != 1 || issues[0].Type != IssueDifficultyMismatch {
		t.Errorf("confident mismatch should flag, got %v", issues)
	}

	if issues := h.CheckDifficultyConsistency("wĩ mwega", models.DifficultyBeginner); len(issues) != 0 {
		t.Errorf("matching declaration should pass, got %v", issues)
	}

	// Mid-length text estimates with confidence 0.5, below the gate.
	if issues := h.CheckDifficultyConsistency("andũ aingĩ nĩ mangĩoka gũkũ mũciĩ", models.DifficultyBeginner); len(issues) != 0 {
		t.Errorf("low-confidence estimate should stay silent, got %v", issues)
	}
}

func TestCheckCategoryRelevance(t *testing.T) {
	h := testHeuristics()

	if issues := h.CheckCategoryRelevance(nil); len(issues) != 1 {
		t.Errorf("no categories should flag one low issue, got %v", issues)
	}
	if issues := h.CheckCategoryRelevance([]models.Category{{ID: 1, Name: "Greetings"}}); len(issues) != 0 {
		t.Errorf("categorized contribution should pass, got %v", issues)
	}
}

func TestCheckContextCompleteness(t *testing.T) {
	h := testHeuristics()

	long := "mũgambo wa andũ aingĩ nĩguo ũrĩa wa ngai"
	if issues := h.CheckContextCompleteness(long, "", ""); len(issues) != 1 {
		t.Errorf("long phrase without notes should flag, got %v", issues)
	}
	if issues := h.CheckContextCompleteness(long, "a proverb about consensus", ""); len(issues) != 0 {
		t.Errorf("context notes should satisfy the check, got %v", issues)
	}
	if issues := h.CheckContextCompleteness("wĩ mwega", "", ""); len(issues) != 0 {
		t.Errorf("short phrases never need notes, got %v", issues)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace("  wĩ   mwega\t mũno \n")
	if got != "wĩ mwega mũno" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}

	// Idempotence: a second pass changes nothing.
	if again := NormalizeWhitespace(got); again != got {
		t.Errorf("NormalizeWhitespace not idempotent: %q -> %q", got, again)
	}
}
