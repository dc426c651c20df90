package models

import "time"

// Moderation actions recorded in the audit log.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionAutoFix = "auto_fix"
)

// AuditLog is the append-only record of a moderation action on a contribution.
// Rows are never updated or deleted. BatchID groups rows written by one bulk
// operation so a whole batch can be traced.
type AuditLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ContributionID uint      `gorm:"index;not null" json:"contribution_id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	Action         string    `gorm:"size:50;index;not null" json:"action"`
	Reason         string    `gorm:"size:1000" json:"reason"`
	BatchID        string    `gorm:"size:36;index" json:"batch_id,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
