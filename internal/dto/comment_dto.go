package dto

import (
	"time"

	"github.com/praxisdev/praxis-api/internal/models"
)

// CommentResponse is the client-facing shape of a review comment.
type CommentResponse struct {
	ID           uint      `json:"id"`
	SubmissionID uint      `json:"submission_id"`
	UserID       uint      `json:"user_id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCommentResponseSlice maps a slice of comments, preserving order.
func NewCommentResponseSlice(comments []models.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, CommentResponse{
			ID:           comment.ID,
			SubmissionID: comment.SubmissionID,
			UserID:       comment.UserID,
			Body:         comment.Body,
			CreatedAt:    comment.CreatedAt,
		})
	}
	return responses
}
