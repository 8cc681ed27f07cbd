package models

import "time"

// Comment is a review remark on a submission. Comment threads are rendered
// elsewhere; this service only orders and counts them.
type Comment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Body         string    `gorm:"type:text" json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
