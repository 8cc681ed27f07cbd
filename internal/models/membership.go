package models

import "time"

// Like records that a user likes a submission. At most one row exists per
// (submission, user) pair; removing it is a hard delete.
type Like struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;uniqueIndex:idx_likes_submission_user" json:"submission_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_likes_submission_user" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Mute records that a user suppressed further notifications for a submission.
type Mute struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;uniqueIndex:idx_mutes_submission_user" json:"submission_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_mutes_submission_user" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Viewer records that a user has looked at a submission. Rows are only ever
// added, never removed.
type Viewer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;uniqueIndex:idx_viewers_submission_user" json:"submission_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_viewers_submission_user" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
