package services

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity weights for the blended text-similarity measure. The moderation
// pipeline's duplicate thresholds are calibrated against this exact blend.
const (
	JaccardWeight  = 0.6
	SequenceWeight = 0.4
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// TokenJaccard returns the Jaccard coefficient of the two texts' token sets.
func TokenJaccard(a, b string) float64 {
	setA := make(map[string]bool)
	for _, tok := range Tokenize(a) {
		setA[tok] = true
	}
	setB := make(map[string]bool)
	for _, tok := range Tokenize(b) {
		setB[tok] = true
	}

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// SequenceRatio returns the character-level sequence similarity of two strings.
func SequenceRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	matcher := difflib.NewMatcher(splitChars(a), splitChars(b))
	return matcher.Ratio()
}

func splitChars(s string) []string {
	runes := []rune(strings.ToLower(s))
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// BlendedSimilarity combines token overlap and sequence similarity into the
// single score the duplicate detector and spell suggester compare against
// their thresholds.
func BlendedSimilarity(a, b string) float64 {
	return JaccardWeight*TokenJaccard(a, b) + SequenceWeight*SequenceRatio(a, b)
}
