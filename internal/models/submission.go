package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission represents one attempt at an exercise by one user. Versions are
// numbered per (user, language, slug) group in creation order.
type Submission struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Key       string         `gorm:"size:64;uniqueIndex;not null" json:"key"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Language  string         `gorm:"size:64;not null;index" json:"language"`
	Slug      string         `gorm:"size:128;not null;index" json:"slug"`
	Solution  datatypes.JSON `gorm:"type:json" json:"solution"`
	State     string         `gorm:"size:32;not null;default:pending" json:"state"`
	Version   int            `gorm:"not null" json:"version"`
	NitCount  int            `gorm:"not null;default:0" json:"nit_count"`
	IsLiked   bool           `gorm:"not null;default:false" json:"is_liked"`
	DoneAt    *time.Time     `json:"done_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Comments []Comment `json:"comments,omitempty"`
	Likes    []Like    `json:"likes,omitempty"`
	Mutes    []Mute    `json:"mutes,omitempty"`
	Viewers  []Viewer  `json:"viewers,omitempty"`
}

const (
	// SubmissionStatePending indicates the submission awaits review.
	SubmissionStatePending = "pending"
	// SubmissionStateNeedsInput indicates a reviewer is waiting on the author.
	SubmissionStateNeedsInput = "needs_input"
	// SubmissionStateHibernating indicates the conversation has stalled.
	SubmissionStateHibernating = "hibernating"
	// SubmissionStateDone indicates the author considers the exercise complete.
	SubmissionStateDone = "done"
	// SubmissionStateSuperseded indicates a newer version replaced this one.
	SubmissionStateSuperseded = "superseded"
)

// IsDone reports whether the submission is in the done state.
func (s Submission) IsDone() bool {
	return s.State == SubmissionStateDone
}

// IsStrictlyPending reports whether the state is exactly pending. The
// collection-level pending scope is wider: it also admits needs_input. Both
// meanings are intentional and kept under distinct names.
func (s Submission) IsStrictlyPending() bool {
	return s.State == SubmissionStatePending
}

// IsNeedsInput reports whether the submission waits on its author.
func (s Submission) IsNeedsInput() bool {
	return s.State == SubmissionStateNeedsInput
}

// IsHibernating reports whether the submission is hibernating.
func (s Submission) IsHibernating() bool {
	return s.State == SubmissionStateHibernating
}

// IsSuperseded reports whether a newer version replaced this submission.
func (s Submission) IsSuperseded() bool {
	return s.State == SubmissionStateSuperseded
}

// Problem returns the exercise identity this submission was made against.
func (s Submission) Problem() Problem {
	return Problem{TrackID: s.Language, Slug: s.Slug}
}

// Name returns the human-readable exercise name derived from the slug.
func (s Submission) Name() string {
	return s.Problem().Name()
}

// OlderThan reports whether the submission was created more than d before now.
// Both sides of the comparison are taken in UTC.
func (s Submission) OlderThan(now time.Time, d time.Duration) bool {
	return s.CreatedAt.UTC().Before(now.UTC().Add(-d))
}
