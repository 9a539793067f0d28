package services

import (
	"context"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/cache"
	"contesto/internal/models"
	"contesto/internal/repository"
	"contesto/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const popularLimit = 8

// ContestService handles the contest lifecycle
type ContestService struct {
	repo   *repository.Repository
	cache  cache.PopularCache
	images ImageStore

	// Now is the clock used for deadline checks
	Now func() time.Time
}

// NewContestService creates a new ContestService. popular and images may be nil.
func NewContestService(repo *repository.Repository, popular cache.PopularCache, images ImageStore) *ContestService {
	if popular == nil {
		popular = cache.Noop{}
	}
	return &ContestService{
		repo:   repo,
		cache:  popular,
		images: images,
		Now:    time.Now,
	}
}

// ContestInput is the creator-supplied contest definition
type ContestInput struct {
	Name               string
	Image              string
	Description        string
	TaskInstruction    string
	Category           string
	EntryFee           decimal.Decimal
	PrizeMoney         decimal.Decimal
	ParticipationEndAt time.Time
}

// ContestUpdate holds editable contest fields; nil fields are left unchanged
type ContestUpdate struct {
	Name               *string
	Image              *string
	Description        *string
	TaskInstruction    *string
	Category           *string
	EntryFee           *decimal.Decimal
	PrizeMoney         *decimal.Decimal
	ParticipationEndAt *time.Time
}

// WinnerResult is the outcome of a winner selection
type WinnerResult struct {
	Contest    *models.Contest    `json:"contest"`
	Submission *models.Submission `json:"submission"`
	LostCount  int64              `json:"lostCount"`
}

func (s *ContestService) validateMoney(fee, prize decimal.Decimal) error {
	if fee.IsNegative() {
		return apperr.Validation("entryFee must not be negative")
	}
	if prize.IsNegative() {
		return apperr.Validation("prizeMoney must not be negative")
	}
	return nil
}

// Create stores a new contest awaiting moderation
func (s *ContestService) Create(ctx context.Context, creatorEmail string, in ContestInput) (*models.Contest, error) {
	creatorEmail = NormalizeEmail(creatorEmail)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperr.Validation("category is required")
	}
	if err := s.validateMoney(in.EntryFee, in.PrizeMoney); err != nil {
		return nil, err
	}
	if !in.ParticipationEndAt.After(s.Now()) {
		return nil, apperr.Validation("participationEndAt must be in the future")
	}

	creator, err := s.repo.GetUserByEmail(ctx, creatorEmail)
	if err != nil {
		return nil, lookupError(err, "creator not found")
	}

	contest := &models.Contest{
		Slug:               utils.ContestSlug(name),
		Name:               name,
		Image:              strings.TrimSpace(in.Image),
		Description:        in.Description,
		TaskInstruction:    in.TaskInstruction,
		Category:           category,
		EntryFee:           in.EntryFee.Round(2),
		PrizeMoney:         in.PrizeMoney.Round(2),
		ParticipationEndAt: in.ParticipationEndAt.UTC(),
		CreatorEmail:       creatorEmail,
		CreatorName:        creator.Name,
		Status:             models.ModerationPending,
		ContestStatus:      models.ContestStatusUnset,
	}
	if err := s.repo.CreateContest(ctx, contest); err != nil {
		return nil, apperr.Internal("create contest", err)
	}

	log.Printf("[ContestService] contest %s created by %s", contest.ID, creatorEmail)
	return contest, nil
}

// loadOwned fetches a contest and checks that email created it
func (s *ContestService) loadOwned(ctx context.Context, id uuid.UUID, email string) (*models.Contest, error) {
	contest, err := s.repo.GetContestByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "contest not found")
	}
	if contest.CreatorEmail != NormalizeEmail(email) {
		return nil, apperr.Forbidden("you do not own this contest")
	}
	return contest, nil
}

// UpdateByCreator edits a contest its creator owns while it awaits moderation
func (s *ContestService) UpdateByCreator(ctx context.Context, email string, id uuid.UUID, in ContestUpdate) (*models.Contest, error) {
	contest, err := s.loadOwned(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if contest.Status != models.ModerationPending {
		return nil, apperr.Conflict("only pending contests can be edited")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Image != nil {
		updates["image"] = strings.TrimSpace(*in.Image)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.TaskInstruction != nil {
		updates["task_instruction"] = *in.TaskInstruction
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return nil, apperr.Validation("category cannot be empty")
		}
		updates["category"] = category
	}
	fee, prize := contest.EntryFee, contest.PrizeMoney
	if in.EntryFee != nil {
		fee = in.EntryFee.Round(2)
		updates["entry_fee"] = fee
	}
	if in.PrizeMoney != nil {
		prize = in.PrizeMoney.Round(2)
		updates["prize_money"] = prize
	}
	if err := s.validateMoney(fee, prize); err != nil {
		return nil, err
	}
	if in.ParticipationEndAt != nil {
		if !in.ParticipationEndAt.After(s.Now()) {
			return nil, apperr.Validation("participationEndAt must be in the future")
		}
		updates["participation_end_at"] = in.ParticipationEndAt.UTC()
	}

	if len(updates) > 0 {
		ok, err := s.repo.UpdatePendingContest(ctx, id, updates)
		if err != nil {
			return nil, apperr.Internal("update contest", err)
		}
		if !ok {
			return nil, apperr.Conflict("only pending contests can be edited")
		}
	}

	return s.mustGet(ctx, id)
}

func (s *ContestService) mustGet(ctx context.Context, id uuid.UUID) (*models.Contest, error) {
	contest, err := s.repo.GetContestByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "contest not found")
	}
	return contest, nil
}

// Moderate approves or rejects a contest. Approval opens it for participation;
// an open contest stays open when rejected later.
func (s *ContestService) Moderate(ctx context.Context, id uuid.UUID, status models.ModerationStatus) (*models.Contest, error) {
	switch status {
	case models.ModerationApproved, models.ModerationRejected:
	default:
		return nil, apperr.Validation("status must be approved or rejected")
	}

	contest, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if contest.ContestStatus == models.ContestStatusCompleted {
		return nil, apperr.Conflict("completed contests cannot be moderated")
	}

	ok, err := s.repo.ModerateContest(ctx, id, status)
	if err != nil {
		return nil, apperr.Internal("moderate contest", err)
	}
	if !ok {
		return nil, apperr.Conflict("completed contests cannot be moderated")
	}

	s.invalidatePopular(ctx)
	log.Printf("[ContestService] contest %s moderated: %s", id, status)
	return s.mustGet(ctx, id)
}

// Delete removes a contest. Admins may delete any contest; creators only their own pending ones.
func (s *ContestService) Delete(ctx context.Context, email string, role models.Role, id uuid.UUID) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		contest, err := tx.GetContestByID(ctx, id)
		if err != nil {
			return lookupError(err, "contest not found")
		}

		if role != models.RoleAdmin {
			if contest.CreatorEmail != NormalizeEmail(email) {
				return apperr.Forbidden("you do not own this contest")
			}
			if contest.Status != models.ModerationPending {
				return apperr.Conflict("only pending contests can be deleted")
			}
		}

		if err := tx.DeleteContest(ctx, id); err != nil {
			return lookupError(err, "contest not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidatePopular(ctx)
	log.Printf("[ContestService] contest %s deleted by %s", id, email)
	return nil
}

// ListPublic returns approved contests matching the filter
func (s *ContestService) ListPublic(ctx context.Context, filter repository.ContestFilter) ([]models.Contest, error) {
	switch filter.ContestStatus {
	case "", models.ContestStatusOpen, models.ContestStatusCompleted:
	default:
		return nil, apperr.Validation("contestStatus must be open or completed")
	}
	filter.Status = models.ModerationApproved
	filter.CreatorEmail = ""

	contests, err := s.repo.ListContests(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list contests", err)
	}
	return contests, nil
}

// ListAll returns every contest, optionally filtered by moderation status
func (s *ContestService) ListAll(ctx context.Context, status models.ModerationStatus) ([]models.Contest, error) {
	switch status {
	case "", models.ModerationPending, models.ModerationApproved, models.ModerationRejected:
	default:
		return nil, apperr.Validation("status must be pending, approved or rejected")
	}

	contests, err := s.repo.ListContests(ctx, repository.ContestFilter{Status: status})
	if err != nil {
		return nil, apperr.Internal("list contests", err)
	}
	return contests, nil
}

// ListByCreator returns the caller's contests in any state
func (s *ContestService) ListByCreator(ctx context.Context, email string) ([]models.Contest, error) {
	contests, err := s.repo.ListContests(ctx, repository.ContestFilter{CreatorEmail: NormalizeEmail(email)})
	if err != nil {
		return nil, apperr.Internal("list creator contests", err)
	}
	return contests, nil
}

// ListJoined returns the contests the caller participates in
func (s *ContestService) ListJoined(ctx context.Context, email string) ([]models.Contest, error) {
	contests, err := s.repo.ContestsJoinedBy(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, apperr.Internal("list joined contests", err)
	}
	return contests, nil
}

// Popular returns the most joined approved contests, from cache when possible
func (s *ContestService) Popular(ctx context.Context) ([]models.ContestSummary, error) {
	cached, ok, err := s.cache.GetPopular(ctx)
	if err != nil {
		log.Printf("[ContestService] popular cache read failed: %v", err)
	}
	if ok {
		return cached, nil
	}
	return s.RefreshPopular(ctx)
}

// RefreshPopular recomputes the popular list and stores it in the cache
func (s *ContestService) RefreshPopular(ctx context.Context) ([]models.ContestSummary, error) {
	contests, err := s.repo.PopularContests(ctx, popularLimit)
	if err != nil {
		return nil, apperr.Internal("load popular contests", err)
	}
	if contests == nil {
		contests = []models.ContestSummary{}
	}
	if err := s.cache.SetPopular(ctx, contests); err != nil {
		log.Printf("[ContestService] popular cache write failed: %v", err)
	}
	return contests, nil
}

func (s *ContestService) invalidatePopular(ctx context.Context) {
	if err := s.cache.InvalidatePopular(ctx); err != nil {
		log.Printf("[ContestService] popular cache invalidation failed: %v", err)
	}
}

// resolve finds a contest by uuid or slug
func (s *ContestService) resolve(ctx context.Context, idOrSlug string) (*models.Contest, error) {
	var (
		contest *models.Contest
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		contest, err = s.repo.GetContestByID(ctx, id)
	} else {
		contest, err = s.repo.GetContestBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, lookupError(err, "contest not found")
	}
	return contest, nil
}

// Get returns an approved contest by uuid or slug with its participant count.
// Pending and rejected contests are reported as not found.
func (s *ContestService) Get(ctx context.Context, idOrSlug string) (*models.ContestSummary, error) {
	contest, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if contest.Status != models.ModerationApproved {
		return nil, apperr.NotFound("contest not found")
	}

	count, err := s.repo.CountParticipants(ctx, contest.ID)
	if err != nil {
		return nil, apperr.Internal("count participants", err)
	}

	return &models.ContestSummary{Contest: *contest, ParticipantsCount: count}, nil
}

// Winner returns the public result of a completed contest
func (s *ContestService) Winner(ctx context.Context, idOrSlug string) (*models.ContestWinner, error) {
	contest, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if contest.ContestStatus != models.ContestStatusCompleted || contest.WinnerEmail == nil || contest.WinnerSubmissionID == nil {
		return nil, apperr.NotFound("winner not selected yet")
	}

	result := &models.ContestWinner{
		ContestID:    contest.ID,
		ContestName:  contest.Name,
		PrizeMoney:   contest.PrizeMoney.StringFixed(2),
		WinnerEmail:  *contest.WinnerEmail,
		SubmissionID: *contest.WinnerSubmissionID,
		CompletedAt:  contest.CompletedAt,
	}
	if contest.WinnerName != nil {
		result.WinnerName = *contest.WinnerName
	}

	user, err := s.repo.GetUserByEmail(ctx, result.WinnerEmail)
	if err == nil {
		result.WinnerPhoto = user.PhotoURL
		if result.WinnerName == "" {
			result.WinnerName = user.Name
		}
	} else if !repository.IsNotFound(err) {
		return nil, apperr.Internal("load winner", err)
	}

	return result, nil
}

// SelectWinner completes a contest the caller owns by promoting one pending submission.
// All writes happen in one transaction; a contest completes at most once.
func (s *ContestService) SelectWinner(ctx context.Context, email string, contestID, submissionID uuid.UUID) (*WinnerResult, error) {
	contest, err := s.loadOwned(ctx, contestID, email)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if now.Before(contest.ParticipationEndAt) {
		return nil, apperr.Validation("contest participation has not ended yet")
	}
	if contest.ContestStatus == models.ContestStatusCompleted {
		return nil, apperr.Conflict("winner already selected")
	}
	if contest.ContestStatus != models.ContestStatusOpen {
		return nil, apperr.Validation("contest is not open")
	}

	result := &WinnerResult{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		submission, err := tx.GetSubmissionByID(ctx, submissionID)
		if repository.IsNotFound(err) {
			return apperr.Validation("submission not found")
		}
		if err != nil {
			return apperr.Internal("load submission", err)
		}
		if submission.ContestID != contestID {
			return apperr.Validation("submission does not belong to this contest")
		}
		if submission.Status != models.SubmissionPending {
			return apperr.Validation("submission is not pending")
		}

		completed, err := tx.CompleteContest(ctx, contestID, repository.WinnerUpdate{
			Email:        submission.UserEmail,
			Name:         submission.UserName,
			SubmissionID: submission.ID,
			CompletedAt:  now.UTC(),
		})
		if err != nil {
			return apperr.Internal("complete contest", err)
		}
		if !completed {
			return apperr.Conflict("winner already selected")
		}

		marked, err := tx.MarkWinner(ctx, contestID, submissionID)
		if err != nil {
			return apperr.Internal("mark winner", err)
		}
		if !marked {
			return apperr.Validation("submission is not pending")
		}

		result.LostCount, err = tx.MarkOthersLost(ctx, contestID, submissionID)
		if err != nil {
			return apperr.Internal("mark other submissions", err)
		}

		result.Contest, err = tx.GetContestByID(ctx, contestID)
		if err != nil {
			return apperr.Internal("reload contest", err)
		}
		result.Submission, err = tx.GetSubmissionByID(ctx, submissionID)
		if err != nil {
			return apperr.Internal("reload submission", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePopular(ctx)
	log.Printf("[ContestService] contest %s completed, winner submission %s", contestID, submissionID)
	return result, nil
}

// UploadImage stores a contest image for its owner and updates the contest
func (s *ContestService) UploadImage(ctx context.Context, email string, id uuid.UUID, filename, contentType string, body io.Reader) (*models.Contest, error) {
	if s.images == nil {
		return nil, apperr.Unavailable("image storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation("file must be an image")
	}

	if _, err := s.loadOwned(ctx, id, email); err != nil {
		return nil, err
	}

	key := "contests/" + id.String() + "/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
	url, err := s.images.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, apperr.Upstream("image upload failed", err)
	}

	if err := s.repo.UpdateContestImage(ctx, id, url); err != nil {
		return nil, apperr.Internal("update contest image", err)
	}

	s.invalidatePopular(ctx)
	return s.mustGet(ctx, id)
}
