package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/praxisdev/praxis-api/internal/models"
)

// AlertRepository reads a user's alert collection for the inbox aggregation.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	ListByUser(ctx context.Context, userID uint) ([]models.Alert, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository constructs a repository backed by GORM.
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) ListByUser(ctx context.Context, userID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}

	return alerts, nil
}

func (r *alertRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}
