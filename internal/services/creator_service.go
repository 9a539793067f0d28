package services

import (
	"context"
	"log"
	"strings"

	"contesto/internal/apperr"
	"contesto/internal/models"
	"contesto/internal/repository"

	"github.com/google/uuid"
)

// CreatorService handles the creator-application workflow
type CreatorService struct {
	repo *repository.Repository
}

// NewCreatorService creates a new CreatorService
func NewCreatorService(repo *repository.Repository) *CreatorService {
	return &CreatorService{repo: repo}
}

// ApplyInput is the creator application payload
type ApplyInput struct {
	Name       string
	PhotoURL   string
	Experience string
}

// Apply files a pending creator application for the caller
func (s *CreatorService) Apply(ctx context.Context, email string, in ApplyInput) (*models.CreatorApplication, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, "user not found")
	}
	if user.Role == models.RoleAdmin {
		return nil, apperr.Forbidden("Admin can't apply to be a creator!")
	}

	app := &models.CreatorApplication{
		Email:      email,
		Name:       strings.TrimSpace(in.Name),
		PhotoURL:   strings.TrimSpace(in.PhotoURL),
		Experience: strings.TrimSpace(in.Experience),
		Status:     models.ApplicationPending,
	}
	if app.Name == "" {
		app.Name = user.Name
	}
	if app.PhotoURL == "" {
		app.PhotoURL = user.PhotoURL
	}

	inserted, err := s.repo.CreateApplicationIfAbsent(ctx, app)
	if err != nil {
		return nil, apperr.Internal("create creator application", err)
	}
	if !inserted {
		return nil, apperr.Conflict("Creator already exist!")
	}

	log.Printf("[CreatorService] application filed by %s", email)
	return app, nil
}

// List returns creator applications, optionally filtered by status
func (s *CreatorService) List(ctx context.Context, status models.ApplicationStatus) ([]models.CreatorApplication, error) {
	switch status {
	case "", models.ApplicationPending, models.ApplicationApproved, models.ApplicationRejected:
	default:
		return nil, apperr.Validation("status must be pending, approved or rejected")
	}

	apps, err := s.repo.ListApplications(ctx, status)
	if err != nil {
		return nil, apperr.Internal("list creator applications", err)
	}
	return apps, nil
}

// SetStatus moderates an application and syncs the applicant's role in one transaction
func (s *CreatorService) SetStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.CreatorApplication, error) {
	if status != models.ApplicationApproved && status != models.ApplicationRejected {
		return nil, apperr.Validation("status must be approved or rejected")
	}

	var app *models.CreatorApplication
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.UpdateApplicationStatus(ctx, id, status); err != nil {
			return lookupError(err, "creator application not found")
		}

		var err error
		app, err = tx.GetApplicationByID(ctx, id)
		if err != nil {
			return lookupError(err, "creator application not found")
		}

		user, err := tx.GetUserByEmail(ctx, app.Email)
		if repository.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return apperr.Internal("load applicant", err)
		}

		role := user.Role
		switch {
		case status == models.ApplicationApproved && user.Role != models.RoleAdmin:
			role = models.RoleCreator
		case status == models.ApplicationRejected && user.Role == models.RoleCreator:
			role = models.RoleUser
		}
		if role == user.Role {
			return nil
		}
		if err := tx.UpdateUserRoleByEmail(ctx, user.Email, role); err != nil {
			return apperr.Internal("sync applicant role", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CreatorService] application %s set to %s", id, status)
	return app, nil
}

// Delete removes an application and demotes the applicant if they were a creator
func (s *CreatorService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		app, err := tx.GetApplicationByID(ctx, id)
		if err != nil {
			return lookupError(err, "creator application not found")
		}

		if err := tx.DeleteApplication(ctx, id); err != nil {
			return lookupError(err, "creator application not found")
		}

		user, err := tx.GetUserByEmail(ctx, app.Email)
		if repository.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return apperr.Internal("load applicant", err)
		}
		if user.Role == models.RoleCreator {
			if err := tx.UpdateUserRoleByEmail(ctx, user.Email, models.RoleUser); err != nil {
				return apperr.Internal("demote creator", err)
			}
		}

		log.Printf("[CreatorService] application %s deleted", id)
		return nil
	})
}
