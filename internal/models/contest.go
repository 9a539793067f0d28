package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ModerationStatus is the admin approval state of a contest
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// ContestStatus is the operational lifecycle of an approved contest.
// The zero value means the contest has not been opened yet.
type ContestStatus string

const (
	ContestStatusUnset     ContestStatus = ""
	ContestStatusOpen      ContestStatus = "open"
	ContestStatusCompleted ContestStatus = "completed"
)

// Contest represents a paid creative contest
type Contest struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Slug               string           `gorm:"size:300;uniqueIndex;not null" json:"slug"`
	Name               string           `gorm:"size:255;not null" json:"name"`
	Image              string           `gorm:"size:500" json:"image"`
	Description        string           `gorm:"type:text" json:"description"`
	TaskInstruction    string           `gorm:"type:text" json:"taskInstruction"`
	Category           string           `gorm:"size:100;not null;index" json:"category"`
	EntryFee           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"entryFee"`
	PrizeMoney         decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"prizeMoney"`
	ParticipationEndAt time.Time        `gorm:"not null" json:"participationEndAt"`
	CreatorEmail       string           `gorm:"size:255;not null;index" json:"creatorEmail"`
	CreatorName        string           `gorm:"size:255" json:"creatorName"`
	Status             ModerationStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	ContestStatus      ContestStatus    `gorm:"size:20;index" json:"contestStatus,omitempty"`
	WinnerEmail        *string          `gorm:"size:255" json:"winnerEmail,omitempty"`
	WinnerName         *string          `gorm:"size:255" json:"winnerName,omitempty"`
	WinnerSubmissionID *uuid.UUID       `gorm:"type:uuid" json:"winnerSubmissionId,omitempty"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// TableName specifies the table name for Contest model
func (Contest) TableName() string {
	return "contests"
}

// BeforeCreate assigns a fresh identifier
func (c *Contest) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the contest accepts participants and submissions
func (c *Contest) IsOpen() bool {
	return c.Status == ModerationApproved && c.ContestStatus == ContestStatusOpen
}

// ContestSummary is a contest together with its participant count
type ContestSummary struct {
	Contest `gorm:"embedded"`

	ParticipantsCount int64 `json:"participantsCount"`
}

// ContestWinner is the public result of a completed contest
type ContestWinner struct {
	ContestID    uuid.UUID  `json:"contestId"`
	ContestName  string     `json:"contestName"`
	PrizeMoney   string     `json:"prizeMoney"`
	WinnerEmail  string     `json:"winnerEmail"`
	WinnerName   string     `json:"winnerName"`
	WinnerPhoto  string     `json:"winnerPhoto"`
	SubmissionID uuid.UUID  `json:"submissionId"`
	CompletedAt  *time.Time `json:"completedAt"`
}
