package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus is the moderation state of a creator application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// CreatorApplication is a user's request to become a contest creator.
// There is at most one application per email.
type CreatorApplication struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string            `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name       string            `gorm:"size:255" json:"name"`
	PhotoURL   string            `gorm:"size:500" json:"photoURL"`
	Experience string            `gorm:"type:text" json:"experience,omitempty"`
	Status     ApplicationStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// TableName specifies the table name for CreatorApplication model
func (CreatorApplication) TableName() string {
	return "creators"
}

// BeforeCreate assigns a fresh identifier
func (a *CreatorApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
