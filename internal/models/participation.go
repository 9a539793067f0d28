package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Participant records that a user paid to join a contest.
// (contest_id, user_email) is unique.
type Participant struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContestID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_participant_contest_user" json:"contestId"`
	UserEmail     string     `gorm:"size:255;not null;uniqueIndex:idx_participant_contest_user;index" json:"userEmail"`
	PaymentID     *uuid.UUID `gorm:"type:uuid" json:"paymentId,omitempty"`
	TransactionID string     `gorm:"size:255" json:"transactionId"`
	JoinedAt      time.Time  `gorm:"not null" json:"joinedAt"`
}

// TableName specifies the table name for Participant model
func (Participant) TableName() string {
	return "participants"
}

// BeforeCreate assigns a fresh identifier and join time
func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return nil
}

// PaymentStatus mirrors the checkout provider's payment state
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// Payment is a settled checkout, recorded once per provider transaction
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID string          `gorm:"size:255;uniqueIndex;not null" json:"transactionId"`
	SessionID     string          `gorm:"size:255;index" json:"sessionId"`
	ContestID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"contestId"`
	ContestName   string          `gorm:"size:255" json:"contestName"`
	UserEmail     string          `gorm:"size:255;not null;index" json:"userEmail"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string          `gorm:"size:10" json:"currency"`
	PaymentStatus PaymentStatus   `gorm:"size:20;not null" json:"paymentStatus"`
	PaidAt        time.Time       `gorm:"not null;index" json:"paidAt"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate assigns a fresh identifier
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
