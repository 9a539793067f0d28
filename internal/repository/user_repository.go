package repository

import (
	"context"

	"contesto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// CreateUserIfAbsent inserts the user unless the email is already registered.
// It reports whether a row was inserted.
func (r *Repository) CreateUserIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(user)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers lists users whose name or email contains text, case-insensitively
func (r *Repository) SearchUsers(ctx context.Context, text string) ([]models.User, error) {
	var users []models.User
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if text != "" {
		pattern := likePattern(text)
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole sets the role of the user with the given ID
func (r *Repository) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserRoleByEmail sets the role of the user with the given email
func (r *Repository) UpdateUserRoleByEmail(ctx context.Context, email string, role models.Role) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("role", role).Error
}

// UpdateUserProfile applies the given column updates to the user with email
func (r *Repository) UpdateUserProfile(ctx context.Context, email string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Leaderboard ranks users by their number of winning submissions
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select(`submissions.user_email AS email,
			COALESCE(MAX(users.name), MAX(submissions.user_name), '') AS name,
			COALESCE(MAX(users.photo_url), '') AS photo_url,
			COUNT(*) AS wins`).
		Joins("LEFT JOIN users ON users.email = submissions.user_email").
		Where("submissions.status = ?", models.SubmissionWinner).
		Group("submissions.user_email").
		Order("wins DESC, email ASC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
