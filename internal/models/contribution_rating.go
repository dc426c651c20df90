package models

import (
	"fmt"
	"strings"
	"time"
)

// Content rating tiers, totally ordered general < parental_guidance < teens
// < mature < adult_only. Filtering is "allow rating ≤ user's max tier".
const (
	RatingGeneral          = "general"
	RatingParentalGuidance = "parental_guidance"
	RatingTeens            = "teens"
	RatingMature           = "mature"
	RatingAdultOnly        = "adult_only"
)

// ratingRank implements the total order on rating tiers.
var ratingRank = map[string]int{
	RatingGeneral:          0,
	RatingParentalGuidance: 1,
	RatingTeens:            2,
	RatingMature:           3,
	RatingAdultOnly:        4,
}

// RatingRank returns the position of a rating in the tier order, or -1 if unknown.
func RatingRank(rating string) int {
	if r, ok := ratingRank[rating]; ok {
		return r
	}
	return -1
}

// ParseContentRating validates a content rating string.
func ParseContentRating(s string) (string, error) {
	if _, ok := ratingRank[s]; ok {
		return s, nil
	}
	return "", fmt.Errorf("invalid content rating: %q", s)
}

// IsAdultRating reports whether a tier counts as adult content.
func IsAdultRating(rating string) bool {
	return rating == RatingMature || rating == RatingAdultOnly
}

// Content warning tags attached to a rating.
const (
	WarningSexualContent     = "sexual_content"
	WarningStrongLanguage    = "strong_language"
	WarningViolence          = "violence"
	WarningSubstanceUse      = "substance_use"
	WarningCulturalSensitive = "cultural_sensitive"
	WarningReligious         = "religious"
	WarningPolitical         = "political"
)

var validWarnings = map[string]bool{
	WarningSexualContent:     true,
	WarningStrongLanguage:    true,
	WarningViolence:          true,
	WarningSubstanceUse:      true,
	WarningCulturalSensitive: true,
	WarningReligious:         true,
	WarningPolitical:         true,
}

// ParseContentWarning validates a warning tag string.
func ParseContentWarning(s string) (string, error) {
	if validWarnings[s] {
		return s, nil
	}
	return "", fmt.Errorf("invalid content warning: %q", s)
}

// JoinWarnings serializes warning tags for the comma-separated column.
func JoinWarnings(warnings []string) string {
	return strings.Join(warnings, ",")
}

// SplitWarnings deserializes the comma-separated warnings column.
func SplitWarnings(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// ContributionRating is the one-to-one content rating row for a contribution.
// IsAdultContent and RequiresWarning are derived; keep them in sync via Derive.
type ContributionRating struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ContributionID   uint      `gorm:"uniqueIndex;not null" json:"contribution_id"`
	ContentRating    string    `gorm:"size:30;default:general;index" json:"content_rating"`
	IsAdultContent   bool      `gorm:"default:false" json:"is_adult_content"`
	RequiresWarning  bool      `gorm:"default:false" json:"requires_warning"`
	ContentWarnings  string    `gorm:"size:500" json:"-"` // comma-separated tags
	RatingReason     string    `gorm:"size:500" json:"rating_reason"`
	RatedBy          *uint     `json:"rated_by"`
	AutoRated        bool      `gorm:"default:false" json:"auto_rated"`
	RatingConfidence int       `gorm:"default:0" json:"rating_confidence"` // 0–100
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ContributionRating) TableName() string { return "contribution_ratings" }

// Warnings returns the warning tags as a slice.
func (r *ContributionRating) Warnings() []string {
	return SplitWarnings(r.ContentWarnings)
}

// Derive recomputes the derived flags from rating and warnings.
func (r *ContributionRating) Derive() {
	r.IsAdultContent = IsAdultRating(r.ContentRating)
	r.RequiresWarning = r.ContentWarnings != ""
}
