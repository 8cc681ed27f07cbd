package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/models"
)

// CommentRepository reads the review comments attached to a submission.
// Comments are authored through the review collaborator; this service mostly
// counts them.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.Comment, error)
	CountBySubmission(ctx context.Context, submissionID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository constructs a repository backed by GORM.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepository) CountBySubmission(ctx context.Context, submissionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error

	return count, err
}
