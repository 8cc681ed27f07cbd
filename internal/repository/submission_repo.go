package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/models"
)

// SubmissionRepository defines data operations for submissions. List and
// Count accept any combination of the scopes in this package.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	Save(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByKey(ctx context.Context, key string) (models.Submission, error)
	List(ctx context.Context, scopes ...Scope) ([]models.Submission, error)
	Count(ctx context.Context, scopes ...Scope) (int64, error)
	Related(ctx context.Context, submission models.Submission) ([]models.Submission, error)
	PriorVersion(ctx context.Context, submission models.Submission) (*models.Submission, error)
	Delete(ctx context.Context, id uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{})
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Save(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByKey(ctx context.Context, key string) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).Where("key = ?", key).First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) List(ctx context.Context, scopes ...Scope) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).Scopes(scopes...).Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var count int64
	if err := r.baseQuery(ctx).Scopes(scopes...).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *submissionRepository) Related(ctx context.Context, submission models.Submission) ([]models.Submission, error) {
	return r.List(ctx, RelatedTo(submission))
}

// PriorVersion returns the immediately preceding version in the submission's
// group, or nil when the submission is the first. Absence is not an error.
func (r *submissionRepository) PriorVersion(ctx context.Context, submission models.Submission) (*models.Submission, error) {
	var prior models.Submission
	err := r.baseQuery(ctx).
		Scopes(RelatedTo(submission)).
		Where("version = ?", submission.Version-1).
		First(&prior).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &prior, nil
}

// Delete removes the submission together with its comments, submission
// notifications, viewers, mutes and likes in one transaction. Those rows have
// no lifecycle of their own.
func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_kind = ? AND item_id = ?", models.ItemKindSubmission, id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&models.Viewer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&models.Mute{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Submission{}, id).Error
	})
}
