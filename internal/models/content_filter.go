package models

import "time"

// ContentFilter holds a user's content visibility preferences. A user with no
// row gets DefaultContentFilter (the most restrictive settings).
type ContentFilter struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	MaxContentRating string    `gorm:"size:30;default:general" json:"max_content_rating"`
	HideAdultContent bool      `gorm:"default:true" json:"hide_adult_content"`
	HiddenWarnings   string    `gorm:"size:500" json:"-"` // comma-separated tags
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ContentFilter) TableName() string { return "content_filters" }

// HiddenWarningList returns the hidden warning tags as a slice.
func (f *ContentFilter) HiddenWarningList() []string {
	return SplitWarnings(f.HiddenWarnings)
}

// DefaultContentFilter returns the most restrictive filter, used when a user
// has not configured one.
func DefaultContentFilter(userID uint) *ContentFilter {
	return &ContentFilter{
		UserID:           userID,
		MaxContentRating: RatingGeneral,
		HideAdultContent: true,
	}
}
