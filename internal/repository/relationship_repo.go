package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/models"
)

// RelationshipRepository persists the (submission, user) membership tables:
// likes, mutes and viewers. Adds are idempotent; removes are silent no-ops
// when no membership exists. The read-modify-write composition on top of
// these calls lives in the relationship service and is serialized by callers.
type RelationshipRepository interface {
	AddLike(ctx context.Context, submissionID, userID uint) error
	RemoveLike(ctx context.Context, submissionID, userID uint) error
	HasLike(ctx context.Context, submissionID, userID uint) (bool, error)
	LikeCount(ctx context.Context, submissionID uint) (int64, error)

	AddMute(ctx context.Context, submissionID, userID uint) error
	RemoveMute(ctx context.Context, submissionID, userID uint) error
	RemoveAllMutes(ctx context.Context, submissionID uint) error
	HasMute(ctx context.Context, submissionID, userID uint) (bool, error)

	AddViewer(ctx context.Context, submissionID, userID uint) error
	HasViewer(ctx context.Context, submissionID, userID uint) (bool, error)
	ViewerCount(ctx context.Context, submissionID uint) (int64, error)
}

type relationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository constructs a repository backed by GORM.
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) AddLike(ctx context.Context, submissionID, userID uint) error {
	exists, err := r.HasLike(ctx, submissionID, userID)
	if err != nil || exists {
		return err
	}

	return r.db.WithContext(ctx).Create(&models.Like{SubmissionID: submissionID, UserID: userID}).Error
}

func (r *relationshipRepository) RemoveLike(ctx context.Context, submissionID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("submission_id = ? AND user_id = ?", submissionID, userID).
		Delete(&models.Like{}).Error
}

func (r *relationshipRepository) HasLike(ctx context.Context, submissionID, userID uint) (bool, error) {
	return r.exists(ctx, &models.Like{}, submissionID, userID)
}

func (r *relationshipRepository) LikeCount(ctx context.Context, submissionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error

	return count, err
}

func (r *relationshipRepository) AddMute(ctx context.Context, submissionID, userID uint) error {
	exists, err := r.HasMute(ctx, submissionID, userID)
	if err != nil || exists {
		return err
	}

	return r.db.WithContext(ctx).Create(&models.Mute{SubmissionID: submissionID, UserID: userID}).Error
}

func (r *relationshipRepository) RemoveMute(ctx context.Context, submissionID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("submission_id = ? AND user_id = ?", submissionID, userID).
		Delete(&models.Mute{}).Error
}

func (r *relationshipRepository) RemoveAllMutes(ctx context.Context, submissionID uint) error {
	return r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Delete(&models.Mute{}).Error
}

func (r *relationshipRepository) HasMute(ctx context.Context, submissionID, userID uint) (bool, error) {
	return r.exists(ctx, &models.Mute{}, submissionID, userID)
}

func (r *relationshipRepository) AddViewer(ctx context.Context, submissionID, userID uint) error {
	exists, err := r.HasViewer(ctx, submissionID, userID)
	if err != nil || exists {
		return err
	}

	return r.db.WithContext(ctx).Create(&models.Viewer{SubmissionID: submissionID, UserID: userID}).Error
}

func (r *relationshipRepository) HasViewer(ctx context.Context, submissionID, userID uint) (bool, error) {
	return r.exists(ctx, &models.Viewer{}, submissionID, userID)
}

func (r *relationshipRepository) ViewerCount(ctx context.Context, submissionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Viewer{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error

	return count, err
}

func (r *relationshipRepository) exists(ctx context.Context, model interface{}, submissionID, userID uint) (bool, error) {
	err := r.db.WithContext(ctx).Model(model).
		Select("id").
		Where("submission_id = ? AND user_id = ?", submissionID, userID).
		First(model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
