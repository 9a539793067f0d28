package repository

import (
	"context"

	"contesto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// CreatePaymentIfAbsent records a payment unless its transaction ID is already stored.
// It reports whether a row was inserted.
func (r *Repository) CreatePaymentIfAbsent(ctx context.Context, payment *models.Payment) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(payment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetPaymentByTransactionID retrieves a payment by its provider transaction ID
func (r *Repository) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPaymentsByEmail lists a user's payments, newest first
func (r *Repository) ListPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("paid_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// CreateParticipantIfAbsent adds a participant unless the user already joined the contest.
// It reports whether a row was inserted.
func (r *Repository) CreateParticipantIfAbsent(ctx context.Context, participant *models.Participant) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contest_id"}, {Name: "user_email"}},
			DoNothing: true,
		}).
		Create(participant)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsParticipant reports whether the user joined the contest
func (r *Repository) IsParticipant(ctx context.Context, contestID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("contest_id = ? AND user_email = ?", contestID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountParticipants returns the number of participants in a contest
func (r *Repository) CountParticipants(ctx context.Context, contestID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("contest_id = ?", contestID).
		Count(&count).Error
	return count, err
}
