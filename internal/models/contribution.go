package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Contribution status values. Pending contributions may move to approved or
// rejected exactly once; both outcomes are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Difficulty levels declared by contributors.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ParseStatus validates a contribution status string.
func ParseStatus(s string) (string, error) {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, nil
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

// ParseDifficulty validates a difficulty level string.
func ParseDifficulty(s string) (string, error) {
	switch s {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return s, nil
	}
	return "", fmt.Errorf("invalid difficulty level: %q", s)
}

// Contribution is a single source/target translation pair under moderation.
//
// QualityScore is an advisory community score (0–5) and is independent of the
// QA pipeline's 0–1 report score, which is recomputed on demand and never stored.
type Contribution struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SourceText      string         `gorm:"type:text;not null" json:"source_text"`
	TargetText      string         `gorm:"type:text;not null" json:"target_text"`
	Language        string         `gorm:"size:50;default:kikuyu" json:"language"`
	Status          string         `gorm:"size:20;default:pending;index" json:"status"`
	DifficultyLevel string         `gorm:"size:20;default:beginner" json:"difficulty_level"`
	QualityScore    float64        `gorm:"default:0" json:"quality_score"`
	ContextNotes    string         `gorm:"type:text" json:"context_notes"`
	CulturalNotes   string         `gorm:"type:text" json:"cultural_notes"`
	Categories      []Category     `gorm:"many2many:contribution_categories" json:"categories,omitempty"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	Creator         *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Contribution) TableName() string { return "contributions" }

// CanTransitionTo reports whether the status change is a legal state-machine move.
func (c *Contribution) CanTransitionTo(status string) bool {
	if c.Status != StatusPending {
		return false
	}
	return status == StatusApproved || status == StatusRejected
}
