package services

import (
	"context"
	"log"
	"strings"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/models"
	"contesto/internal/repository"

	"github.com/google/uuid"
)

// SubmissionService handles contest entries
type SubmissionService struct {
	repo *repository.Repository

	// Now is the clock used for deadline checks
	Now func() time.Time
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(repo *repository.Repository) *SubmissionService {
	return &SubmissionService{repo: repo, Now: time.Now}
}

// openContestFor checks that email may submit to the contest right now
func (s *SubmissionService) openContestFor(ctx context.Context, contestID uuid.UUID, email string) (*models.Contest, error) {
	contest, err := s.repo.GetContestByID(ctx, contestID)
	if err != nil {
		return nil, lookupError(err, "contest not found")
	}
	if !contest.IsOpen() {
		return nil, apperr.Forbidden("contest is not open for submissions")
	}

	joined, err := s.repo.IsParticipant(ctx, contestID, email)
	if err != nil {
		return nil, apperr.Internal("check participation", err)
	}
	if !joined {
		return nil, apperr.Forbidden("only participants can submit")
	}

	if !s.Now().Before(contest.ParticipationEndAt) {
		return nil, apperr.Validation("submission deadline has passed")
	}
	return contest, nil
}

// Create stores the caller's single entry for a contest
func (s *SubmissionService) Create(ctx context.Context, email string, contestID uuid.UUID, value string) (*models.Submission, error) {
	email = NormalizeEmail(email)
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperr.Validation("submissionValue is required")
	}

	if _, err := s.openContestFor(ctx, contestID, email); err != nil {
		return nil, err
	}

	name := ""
	if user, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		name = user.Name
	}

	submission := &models.Submission{
		ContestID:       contestID,
		UserEmail:       email,
		UserName:        name,
		SubmissionValue: value,
		Status:          models.SubmissionPending,
	}
	inserted, err := s.repo.CreateSubmissionIfAbsent(ctx, submission)
	if err != nil {
		return nil, apperr.Internal("create submission", err)
	}
	if !inserted {
		return nil, apperr.Conflict("you already submitted to this contest")
	}

	log.Printf("[SubmissionService] %s submitted to contest %s", email, contestID)
	return submission, nil
}

// Update replaces the value of the caller's pending submission before the deadline
func (s *SubmissionService) Update(ctx context.Context, email string, id uuid.UUID, value string) (*models.Submission, error) {
	email = NormalizeEmail(email)
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperr.Validation("submissionValue is required")
	}

	submission, err := s.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "submission not found")
	}
	if submission.UserEmail != email {
		return nil, apperr.Forbidden("you do not own this submission")
	}
	if submission.Status != models.SubmissionPending {
		return nil, apperr.Validation("submission is no longer pending")
	}

	if _, err := s.openContestFor(ctx, submission.ContestID, email); err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdatePendingSubmission(ctx, id, value)
	if err != nil {
		return nil, apperr.Internal("update submission", err)
	}
	if !ok {
		return nil, apperr.Validation("submission is no longer pending")
	}

	updated, err := s.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "submission not found")
	}
	return updated, nil
}

// Mine returns the caller's submission for a contest
func (s *SubmissionService) Mine(ctx context.Context, email string, contestID uuid.UUID) (*models.Submission, error) {
	submission, err := s.repo.GetUserSubmission(ctx, contestID, NormalizeEmail(email))
	if err != nil {
		return nil, lookupError(err, "submission not found")
	}
	return submission, nil
}

// ListForCreator returns a contest's submissions with submitter profiles for its owner
func (s *SubmissionService) ListForCreator(ctx context.Context, email string, contestID uuid.UUID) ([]models.SubmissionView, error) {
	contest, err := s.repo.GetContestByID(ctx, contestID)
	if err != nil {
		return nil, lookupError(err, "contest not found")
	}
	if contest.CreatorEmail != NormalizeEmail(email) {
		return nil, apperr.Forbidden("you do not own this contest")
	}

	views, err := s.repo.ListSubmissionViews(ctx, contestID)
	if err != nil {
		return nil, apperr.Internal("list submissions", err)
	}
	if views == nil {
		views = []models.SubmissionView{}
	}
	return views, nil
}
