package models

import "time"

// AuditLog records admin actions on back-office resources.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index" json:"user_id"`
	Action     string    `gorm:"not null" json:"action"` // e.g. "CREATE", "UPDATE", "DELETE"
	Resource   string    `gorm:"not null" json:"resource"`
	ResourceID string    `json:"resource_id"`
	Details    string    `gorm:"type:text" json:"details"` // JSON blob
	CreatedAt  time.Time `json:"created_at"`
}
