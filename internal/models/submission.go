package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionStatus is the outcome of a contest entry
type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionWinner  SubmissionStatus = "winner"
	SubmissionLost    SubmissionStatus = "lost"
)

// Submission is a participant's entry in a contest.
// One per (contest_id, user_email); at most one winner per contest.
type Submission struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ContestID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_submission_contest_user;uniqueIndex:idx_submission_winner,where:status = 'winner'" json:"contestId"`
	UserEmail       string           `gorm:"size:255;not null;uniqueIndex:idx_submission_contest_user;index" json:"userEmail"`
	UserName        string           `gorm:"size:255" json:"userName"`
	SubmissionValue string           `gorm:"type:text;not null" json:"submissionValue"`
	Status          SubmissionStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	SubmittedAt     time.Time        `gorm:"autoCreateTime" json:"submittedAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// TableName specifies the table name for Submission model
func (Submission) TableName() string {
	return "submissions"
}

// BeforeCreate assigns a fresh identifier
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SubmissionView is a submission joined with the submitter's profile
type SubmissionView struct {
	Submission `gorm:"embedded"`

	UserPhoto    string `json:"userPhoto"`
	UserFullName string `json:"userFullName"`
}
