package repository

import (
	"context"

	"contesto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// CreateApplicationIfAbsent inserts a creator application unless one exists for the email
func (r *Repository) CreateApplicationIfAbsent(ctx context.Context, app *models.CreatorApplication) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(app)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetApplicationByID retrieves a creator application by ID
func (r *Repository) GetApplicationByID(ctx context.Context, id uuid.UUID) (*models.CreatorApplication, error) {
	var app models.CreatorApplication
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// ListApplications lists creator applications, optionally filtered by status
func (r *Repository) ListApplications(ctx context.Context, status models.ApplicationStatus) ([]models.CreatorApplication, error) {
	var apps []models.CreatorApplication
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateApplicationStatus sets the moderation status of an application
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.CreatorApplication{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApplication removes a creator application
func (r *Repository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CreatorApplication{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
