package services

import (
	"context"
	"log"
	"net/mail"
	"strings"

	"contesto/internal/apperr"
	"contesto/internal/models"
	"contesto/internal/repository"
	"contesto/internal/utils"

	"github.com/google/uuid"
)

// UserService handles user-related business logic
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// RegisterInput is the public sign-up payload
type RegisterInput struct {
	Email    string
	Name     string
	PhotoURL string
}

// ProfileUpdate holds the editable profile fields; nil fields are left unchanged
type ProfileUpdate struct {
	Name     *string
	PhotoURL *string
	Bio      *string
	Address  *string
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new user with role user unless the email already exists.
// It reports whether the user was created.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, bool, error) {
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, apperr.Validation("a valid email is required")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		generated, err := utils.GenerateDisplayName()
		if err != nil {
			return nil, false, apperr.Internal("generate display name", err)
		}
		name = generated
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		PhotoURL: strings.TrimSpace(in.PhotoURL),
		Role:     models.RoleUser,
	}

	inserted, err := s.repo.CreateUserIfAbsent(ctx, user)
	if err != nil {
		return nil, false, apperr.Internal("create user", err)
	}
	if !inserted {
		return nil, false, nil
	}

	log.Printf("[UserService] registered user %s", email)
	return user, true, nil
}

// Search lists users matching text by name or email
func (s *UserService) Search(ctx context.Context, text string) ([]models.User, error) {
	users, err := s.repo.SearchUsers(ctx, text)
	if err != nil {
		return nil, apperr.Internal("search users", err)
	}
	return users, nil
}

// UpdateRole sets a user's role
func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role must be one of user, creator, admin")
	}

	if err := s.repo.UpdateUserRole(ctx, id, role); err != nil {
		return nil, lookupError(err, "user not found")
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found")
	}

	log.Printf("[UserService] user %s role set to %s", user.Email, role)
	return user, nil
}

// RoleOf resolves the stored role of the user with email
func (s *UserService) RoleOf(ctx context.Context, email string) (models.Role, error) {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", lookupError(err, "user not found")
	}
	return user.Role, nil
}

// RoleFor returns target's role when the caller is target or an admin
func (s *UserService) RoleFor(ctx context.Context, callerEmail, targetEmail string) (models.Role, error) {
	callerEmail = NormalizeEmail(callerEmail)
	targetEmail = NormalizeEmail(targetEmail)

	if callerEmail != targetEmail {
		callerRole, err := s.RoleOf(ctx, callerEmail)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return "", err
		}
		if callerRole != models.RoleAdmin {
			return "", apperr.Forbidden("forbidden access")
		}
	}

	return s.RoleOf(ctx, targetEmail)
}

// Profile returns the user with email
func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, lookupError(err, "user not found")
	}
	return user, nil
}

// UpdateProfile edits the caller's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, email string, in ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = name
	}
	if in.PhotoURL != nil {
		updates["photo_url"] = strings.TrimSpace(*in.PhotoURL)
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}

	email = NormalizeEmail(email)
	if len(updates) > 0 {
		if err := s.repo.UpdateUserProfile(ctx, email, updates); err != nil {
			return nil, lookupError(err, "user not found")
		}
	}

	return s.Profile(ctx, email)
}

// Leaderboard ranks users by contest wins
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	entries, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, apperr.Internal("load leaderboard", err)
	}
	return entries, nil
}
