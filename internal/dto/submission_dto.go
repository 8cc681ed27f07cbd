package dto

import (
	"encoding/json"
	"time"

	"github.com/praxisdev/praxis-api/internal/models"
)

// SubmissionCreateRequest describes the payload for submitting a solution.
// The solution itself is an opaque blob; it is stored, never parsed.
type SubmissionCreateRequest struct {
	UserID   uint            `json:"user_id" validate:"required,gt=0"`
	Language string          `json:"language" validate:"required"`
	Slug     string          `json:"slug" validate:"required"`
	Solution json.RawMessage `json:"solution"`
}

// Problem returns the exercise identity embedded in the request.
func (r SubmissionCreateRequest) Problem() models.Problem {
	return models.Problem{TrackID: r.Language, Slug: r.Slug}
}

// SubmissionFilter describes query string filters for listing submissions.
// Filters conjoin; every field is optional.
type SubmissionFilter struct {
	State            *string `query:"state" validate:"omitempty,oneof=done pending hibernating needs_input aging"`
	Language         *string `query:"language"`
	ExcludingUserID  *uint   `query:"excluding_user_id"`
	UnmutedForUserID *uint   `query:"unmuted_for_user_id"`
	NotCommentedByID *uint   `query:"not_commented_by_user_id"`
	NotLikedByUserID *uint   `query:"not_liked_by_user_id"`
	RecentOnly       bool    `query:"recent"`
	Order            *string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID        uint            `json:"id"`
	Key       string          `json:"key"`
	UserID    uint            `json:"user_id"`
	Language  string          `json:"language"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Solution  json.RawMessage `json:"solution,omitempty"`
	State     string          `json:"state"`
	Version   int             `json:"version"`
	NitCount  int             `json:"nit_count"`
	IsLiked   bool            `json:"is_liked"`
	DoneAt    *time.Time      `json:"done_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSubmissionResponse maps a submission model into its response shape.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        submission.ID,
		Key:       submission.Key,
		UserID:    submission.UserID,
		Language:  submission.Language,
		Slug:      submission.Slug,
		Name:      submission.Name(),
		Solution:  json.RawMessage(submission.Solution),
		State:     submission.State,
		Version:   submission.Version,
		NitCount:  submission.NitCount,
		IsLiked:   submission.IsLiked,
		DoneAt:    submission.DoneAt,
		CreatedAt: submission.CreatedAt,
		UpdatedAt: submission.UpdatedAt,
	}
}

// NewSubmissionResponseSlice maps a slice of submissions, preserving order.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
