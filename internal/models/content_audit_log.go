package models

import "time"

// ContentAuditLog captures the prior state of a contribution rating before it
// is overwritten by a re-rating. Append-only.
type ContentAuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ContributionID uint      `gorm:"index;not null" json:"contribution_id"`
	ChangedBy      *uint     `json:"changed_by"`
	OldRating      string    `gorm:"size:30" json:"old_rating"`
	NewRating      string    `gorm:"size:30" json:"new_rating"`
	OldWarnings    string    `gorm:"size:500" json:"old_warnings"`
	NewWarnings    string    `gorm:"size:500" json:"new_warnings"`
	Reason         string    `gorm:"size:500" json:"reason"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (ContentAuditLog) TableName() string { return "content_audit_logs" }
