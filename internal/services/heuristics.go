package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/njeri-dev/tafsiri/internal/config"
	"github.com/njeri-dev/tafsiri/internal/models"
)

// Issue types detected by the quality checks.
const (
	IssueSpellingError        = "spelling_error"
	IssueLengthMismatch       = "length_mismatch"
	IssueDuplicateContent     = "duplicate_content"
	IssueInappropriateContent = "inappropriate_content"
	IssueFormattingError      = "formatting_error"
	IssueDifficultyMismatch   = "difficulty_mismatch"
	IssueCategoryMismatch     = "category_mismatch"
	IssueTranslationAccuracy  = "translation_accuracy"
	IssueMissingContext       = "missing_context"
	IssueLowQualityScore      = "low_quality_score"
)

// Issue severities with their score deductions (applied in quality.go).
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// QualityIssue is one detected problem in a contribution's text or metadata.
// Transient: issues are recomputed on every analysis and never persisted.
type QualityIssue struct {
	Type        string  `json:"issue_type"`
	Severity    string  `json:"severity"`
	Message     string  `json:"message"`
	Suggestion  string  `json:"suggestion,omitempty"`
	Confidence  float64 `json:"confidence"`
	AutoFixable bool    `json:"auto_fixable"`
}

// Inappropriate-content patterns, evaluated in order; the first match wins.
// The repeated-run check is a function because its pattern, `(\S)\1{4,}`,
// needs a backreference that Go's RE2 engine does not support.
var inappropriatePatterns = []struct {
	match  func(string) bool
	reason string
}{
	{regexp.MustCompile(`(?i)\b(spam|test{2,}|asdf+|qwert)\b`).MatchString, "placeholder or spam token"},
	{regexp.MustCompile(`^\s*\S{1,2}\s*$`).MatchString, "text too short to be a translation"},
	{hasRepeatedRun, "repeated character run"},
}

// hasRepeatedRun reports whether text contains the same non-space rune five or
// more times in a row, matching the intent of the regex `(\S)\1{4,}`.
func hasRepeatedRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev && !unicode.IsSpace(r) {
			run++
			if run >= 5 {
				return true
			}
		} else {
			prev, run = r, 1
		}
	}
	return false
}

var (
	whitespaceRunPattern  = regexp.MustCompile(`\s{3,}`)
	whitespaceFoldPattern = regexp.MustCompile(`\s+`)
)

// TextHeuristics bundles the stateless text checks. The spell checker is the
// only collaborator with state; it is injected so its lifecycle stays explicit.
type TextHeuristics struct {
	spell *SpellChecker
	cfg   *config.QAConfig
}

func NewTextHeuristics(spell *SpellChecker, cfg *config.QAConfig) *TextHeuristics {
	return &TextHeuristics{spell: spell, cfg: cfg}
}

// CheckSpelling flags unknown tokens in the source text. Severity scales with
// the error count: more than 3 high, more than 1 medium, otherwise low.
func (h *TextHeuristics) CheckSpelling(source string) []QualityIssue {
	if h.spell == nil || h.spell.VocabularySize() == 0 {
		return nil
	}

	var unknown []string
	var suggestions []string
	for _, tok := range Tokenize(source) {
		if h.spell.Known(tok) {
			continue
		}
		unknown = append(unknown, tok)
		if sug, _ := h.spell.Suggest(tok); sug != "" {
			suggestions = append(suggestions, fmt.Sprintf("%s → %s", tok, sug))
		}
	}

	if len(unknown) == 0 {
		return nil
	}

	severity := SeverityLow
	if len(unknown) > 3 {
		severity = SeverityHigh
	} else if len(unknown) > 1 {
		severity = SeverityMedium
	}

	issue := QualityIssue{
		Type:       IssueSpellingError,
		Severity:   severity,
		Message:    fmt.Sprintf("%d possible spelling error(s): %s", len(unknown), strings.Join(unknown, ", ")),
		Confidence: 0.7,
	}
	if len(suggestions) > 0 {
		issue.Suggestion = strings.Join(suggestions, "; ")
	}
	return []QualityIssue{issue}
}

// CheckLengthBalance compares source and target lengths. Empty text is a
// high-severity issue and short-circuits the ratio check.
func (h *TextHeuristics) CheckLengthBalance(source, target string) []QualityIssue {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(target) == "" {
		return []QualityIssue{{
			Type:       IssueLengthMismatch,
			Severity:   SeverityHigh,
			Message:    "empty text: both source and target are required",
			Confidence: 1.0,
		}}
	}

	ratio := float64(len(source)) / float64(len(target))
	if ratio <= 4 && ratio >= 0.25 {
		return nil
	}

	severity := SeverityMedium
	if ratio > 6 || ratio < 0.15 {
		severity = SeverityHigh
	}
	return []QualityIssue{{
		Type:       IssueLengthMismatch,
		Severity:   severity,
		Message:    fmt.Sprintf("source/target length ratio %.2f is outside the expected range", ratio),
		Suggestion: "verify the translation is complete and not padded",
		Confidence: 0.8,
	}}
}

// CheckDuplicates compares the candidate against existing contributions.
// An exact source or target match is high severity; a blended similarity above
// the near-duplicate threshold is medium.
func (h *TextHeuristics) CheckDuplicates(candidate *models.Contribution, existing []models.Contribution) []QualityIssue {
	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(other.SourceText, candidate.SourceText) ||
			strings.EqualFold(other.TargetText, candidate.TargetText) {
			return []QualityIssue{{
				Type:       IssueDuplicateContent,
				Severity:   SeverityHigh,
				Message:    fmt.Sprintf("exact duplicate of contribution %d", other.ID),
				Confidence: 1.0,
			}}
		}
	}

	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID {
			continue
		}
		sim := BlendedSimilarity(other.SourceText, candidate.SourceText)
		if sim > h.cfg.NearDuplicateThreshold {
			return []QualityIssue{{
				Type:       IssueDuplicateContent,
				Severity:   SeverityMedium,
				Message:    fmt.Sprintf("near-duplicate of contribution %d (similarity %.2f)", other.ID, sim),
				Confidence: sim,
			}}
		}
	}
	return nil
}

// CheckInappropriate runs the ordered pattern list over the text.
// The first matching pattern produces a single high-severity issue.
func (h *TextHeuristics) CheckInappropriate(text string) []QualityIssue {
	for _, p := range inappropriatePatterns {
		if p.match(text) {
			return []QualityIssue{{
				Type:       IssueInappropriateContent,
				Severity:   SeverityHigh,
				Message:    "inappropriate content: " + p.reason,
				Confidence: 0.9,
			}}
		}
	}
	return nil
}

// CheckFormatting flags whitespace anomalies. These are the only auto-fixable
// issues in the pipeline.
func (h *TextHeuristics) CheckFormatting(source, target string) []QualityIssue {
	var issues []QualityIssue
	for _, f := range []struct{ field, text string }{
		{"source_text", source},
		{"target_text", target},
	} {
		if whitespaceRunPattern.MatchString(f.text) || f.text != strings.TrimSpace(f.text) {
			issues = append(issues, QualityIssue{
				Type:        IssueFormattingError,
				Severity:    SeverityLow,
				Message:     "whitespace anomaly in " + f.field,
				Suggestion:  "normalize whitespace",
				Confidence:  1.0,
				AutoFixable: true,
			})
		}
	}
	return issues
}

// EstimateDifficulty guesses a difficulty level from the source text shape and
// returns the estimate with a confidence value.
func EstimateDifficulty(source string) (string, float64) {
	tokens := Tokenize(source)
	wordCount := len(tokens)

	longWords := 0
	for _, tok := range tokens {
		if len([]rune(tok)) >= 9 {
			longWords++
		}
	}

	switch {
	case wordCount <= 2 && longWords == 0:
		return models.DifficultyBeginner, 0.9
	case wordCount <= 5 && longWords <= 1:
		return models.DifficultyIntermediate, 0.75
	case wordCount > 8 || longWords >= 3:
		return models.DifficultyAdvanced, 0.8
	default:
		return models.DifficultyIntermediate, 0.5
	}
}

// CheckDifficultyConsistency compares the declared difficulty with the
// heuristic estimate. Fires only when the estimate is confident enough.
func (h *TextHeuristics) CheckDifficultyConsistency(source, declared string) []QualityIssue {
	estimate, confidence := EstimateDifficulty(source)
	if confidence <= 0.7 || estimate == declared {
		return nil
	}
	return []QualityIssue{{
		Type:       IssueDifficultyMismatch,
		Severity:   SeverityMedium,
		Message:    fmt.Sprintf("declared difficulty %q but text looks %s", declared, estimate),
		Suggestion: "reconsider the difficulty level",
		Confidence: confidence,
	}}
}

// CheckCategoryRelevance flags contributions with no categories attached.
func (h *TextHeuristics) CheckCategoryRelevance(categories []models.Category) []QualityIssue {
	if len(categories) > 0 {
		return nil
	}
	return []QualityIssue{{
		Type:       IssueCategoryMismatch,
		Severity:   SeverityLow,
		Message:    "no categories attached",
		Suggestion: "attach at least one category",
		Confidence: 1.0,
	}}
}

// CheckContextCompleteness flags long phrases missing context or cultural notes.
func (h *TextHeuristics) CheckContextCompleteness(source, contextNotes, culturalNotes string) []QualityIssue {
	if len(Tokenize(source)) <= 5 {
		return nil
	}
	if strings.TrimSpace(contextNotes) != "" || strings.TrimSpace(culturalNotes) != "" {
		return nil
	}
	return []QualityIssue{{
		Type:       IssueMissingContext,
		Severity:   SeverityLow,
		Message:    "long phrase without context or cultural notes",
		Suggestion: "add context notes describing usage",
		Confidence: 0.8,
	}}
}

// NormalizeWhitespace collapses whitespace runs and trims the ends. Applying
// it twice yields the same result as applying it once.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceFoldPattern.ReplaceAllString(text, " "))
}
