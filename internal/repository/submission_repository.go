package repository

import (
	"context"

	"contesto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// CreateSubmissionIfAbsent stores a submission unless the user already submitted to the contest.
// It reports whether a row was inserted.
func (r *Repository) CreateSubmissionIfAbsent(ctx context.Context, submission *models.Submission) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contest_id"}, {Name: "user_email"}},
			DoNothing: true,
		}).
		Create(submission)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetSubmissionByID retrieves a submission by ID
func (r *Repository) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetUserSubmission retrieves the user's submission for a contest
func (r *Repository) GetUserSubmission(ctx context.Context, contestID uuid.UUID, email string) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("contest_id = ? AND user_email = ?", contestID, email).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdatePendingSubmission replaces the value of a submission that is still pending
func (r *Repository) UpdatePendingSubmission(ctx context.Context, id uuid.UUID, value string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, models.SubmissionPending).
		Update("submission_value", value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListSubmissionViews lists a contest's submissions with the submitters' profiles
func (r *Repository) ListSubmissionViews(ctx context.Context, contestID uuid.UUID) ([]models.SubmissionView, error) {
	var views []models.SubmissionView
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select(`submissions.*,
			COALESCE(users.photo_url, '') AS user_photo,
			COALESCE(users.name, submissions.user_name) AS user_full_name`).
		Joins("LEFT JOIN users ON users.email = submissions.user_email").
		Where("submissions.contest_id = ?", contestID).
		Order("submissions.submitted_at ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// MarkWinner flips a pending submission of the contest to winner.
// It reports false when the submission is missing or no longer pending.
func (r *Repository) MarkWinner(ctx context.Context, contestID, submissionID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ? AND contest_id = ? AND status = ?", submissionID, contestID, models.SubmissionPending).
		Update("status", models.SubmissionWinner)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkOthersLost flips every other pending submission of the contest to lost
func (r *Repository) MarkOthersLost(ctx context.Context, contestID, winnerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("contest_id = ? AND id <> ? AND status = ?", contestID, winnerID, models.SubmissionPending).
		Update("status", models.SubmissionLost)
	return result.RowsAffected, result.Error
}
