package model

import "time"

// PendingSubmission is a form submission held open while it waits for
// a payment event. Completed or expired submissions can no longer be
// restored.
type PendingSubmission struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	EntryID   int64     `gorm:"not null;index" json:"entry_id"`
	FormID    int64     `gorm:"not null" json:"form_id"`
	Status    string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PendingSubmission) TableName() string {
	return "pending_submissions"
}
