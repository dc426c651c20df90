package services

import (
	"regexp"
	"strings"

	"github.com/njeri-dev/tafsiri/internal/models"
)

// patternFamily maps a set of regex patterns to one content warning tag.
// Families are evaluated in the fixed order below; extend the table, not the
// control flow, when new warning types are needed.
type patternFamily struct {
	warning  string
	adult    bool
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var ratingFamilies = []patternFamily{
	{
		warning: models.WarningSexualContent,
		adult:   true,
		patterns: compileAll(
			`\b(sex|sexual|porn|nude|naked|erotic)\b`,
			`\b(maraya|ũmaraya)\b`, // prostitution
		),
	},
	{
		warning: models.WarningStrongLanguage,
		adult:   true,
		patterns: compileAll(
			`\b(fuck\w*|shit|bitch|bastard|asshole|cunt)\b`,
			`\b(damn|crap)\b`,
		),
	},
	{
		warning: models.WarningViolence,
		adult:   true,
		patterns: compileAll(
			`\b(kill|murder|stab|shoot|slaughter|massacre)\b`,
			`\b(ũragani|kũũraga)\b`, // killing
			`\b(blood|bleed\w*|wound\w*)\b`,
		),
	},
	{
		warning: models.WarningSubstanceUse,
		adult:   true,
		patterns: compileAll(
			`\b(drunk|alcohol|beer|njohi|marijuana|bhang|cocaine|heroin)\b`,
			`\b(smoke|smoking|tobacco|mbaki)\b`,
		),
	},
	{
		warning: models.WarningCulturalSensitive,
		patterns: compileAll(
			`\b(circumcision|irua|initiation rite|dowry|rũracio)\b`,
			`\b(curse|kĩrumi|taboo|mũgiro)\b`,
		),
	},
	{
		warning: models.WarningReligious,
		patterns: compileAll(
			`\b(ngai|god|church|prayer|mathaithi|sacrifice|shrine)\b`,
		),
	},
	{
		warning: models.WarningPolitical,
		patterns: compileAll(
			`\b(politic\w*|election|government|mau mau|colonial\w*|uhuru)\b`,
		),
	},
}

// ContentClassifier maps free text to a content rating tier, a set of warning
// tags and a confidence score. Pure: no I/O, no state.
type ContentClassifier struct{}

func NewContentClassifier() *ContentClassifier {
	return &ContentClassifier{}
}

// ClassificationResult is the outcome of classifying one contribution's text.
type ClassificationResult struct {
	Rating     string   `json:"suggested_rating"`
	Warnings   []string `json:"content_warnings"`
	Confidence float64  `json:"confidence"`
}

// Classify evaluates every pattern family against the combined text and
// escalates the rating by the number of matched families. Absence of any
// match yields (general, no warnings, 0.8).
func (c *ContentClassifier) Classify(sourceText, targetText, contextNotes string) ClassificationResult {
	buffer := strings.ToLower(sourceText + " " + targetText + " " + contextNotes)

	var warnings []string
	adultMatches := 0
	sexualMatched := false

	for _, family := range ratingFamilies {
		for _, p := range family.patterns {
			if p.MatchString(buffer) {
				warnings = append(warnings, family.warning)
				if family.adult {
					adultMatches++
				}
				if family.warning == models.WarningSexualContent {
					sexualMatched = true
				}
				break
			}
		}
	}

	rating := escalateRating(len(warnings), sexualMatched, adultMatches)

	confidence := 0.8 + 0.025*float64(len(warnings))
	if confidence > 0.9 {
		confidence = 0.9
	}

	return ClassificationResult{
		Rating:     rating,
		Warnings:   warnings,
		Confidence: confidence,
	}
}

// escalateRating applies the fixed escalation table: sexual content forces at
// least mature (adult_only when more than 3 adult families matched), otherwise
// the tier rises with the warning count.
func escalateRating(warningCount int, sexualMatched bool, adultMatches int) string {
	if sexualMatched {
		if adultMatches > 3 {
			return models.RatingAdultOnly
		}
		return models.RatingMature
	}
	switch {
	case warningCount >= 3:
		return models.RatingMature
	case warningCount >= 2:
		return models.RatingTeens
	case warningCount >= 1:
		return models.RatingParentalGuidance
	default:
		return models.RatingGeneral
	}
}
