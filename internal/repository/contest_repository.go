package repository

import (
	"context"
	"time"

	"contesto/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContestFilter narrows contest listings; zero fields are ignored
type ContestFilter struct {
	Status        models.ModerationStatus
	ContestStatus models.ContestStatus
	Category      string
	Search        string
	CreatorEmail  string
}

// WinnerUpdate carries the winner fields written when a contest completes
type WinnerUpdate struct {
	Email        string
	Name         string
	SubmissionID uuid.UUID
	CompletedAt  time.Time
}

// CreateContest creates a new contest
func (r *Repository) CreateContest(ctx context.Context, contest *models.Contest) error {
	return r.db.WithContext(ctx).Create(contest).Error
}

// GetContestByID retrieves a contest by ID
func (r *Repository) GetContestByID(ctx context.Context, id uuid.UUID) (*models.Contest, error) {
	var contest models.Contest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

// GetContestBySlug retrieves a contest by slug
func (r *Repository) GetContestBySlug(ctx context.Context, slug string) (*models.Contest, error) {
	var contest models.Contest
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

// ListContests lists contests matching the filter, newest first
func (r *Repository) ListContests(ctx context.Context, filter ContestFilter) ([]models.Contest, error) {
	var contests []models.Contest
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ContestStatus != "" {
		query = query.Where("contest_status = ?", filter.ContestStatus)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	if filter.CreatorEmail != "" {
		query = query.Where("creator_email = ?", filter.CreatorEmail)
	}
	if err := query.Find(&contests).Error; err != nil {
		return nil, err
	}
	return contests, nil
}

// PopularContests returns approved contests ranked by participant count
func (r *Repository) PopularContests(ctx context.Context, limit int) ([]models.ContestSummary, error) {
	var summaries []models.ContestSummary
	err := r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Select("contests.*, COUNT(participants.id) AS participants_count").
		Joins("LEFT JOIN participants ON participants.contest_id = contests.id").
		Where("contests.status = ?", models.ModerationApproved).
		Group("contests.id").
		Order("participants_count DESC, contests.created_at DESC").
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// ContestsJoinedBy lists contests the user participates in, most recent first
func (r *Repository) ContestsJoinedBy(ctx context.Context, email string) ([]models.Contest, error) {
	var contests []models.Contest
	err := r.db.WithContext(ctx).
		Joins("JOIN participants ON participants.contest_id = contests.id").
		Where("participants.user_email = ?", email).
		Order("participants.joined_at DESC").
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

// UpdatePendingContest applies column updates to a contest still awaiting moderation.
// It reports false when the contest is missing or already moderated.
func (r *Repository) UpdatePendingContest(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ? AND status = ?", id, models.ModerationPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateContestImage sets the image URL of a contest
func (r *Repository) UpdateContestImage(ctx context.Context, id uuid.UUID, image string) error {
	return r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ?", id).
		Update("image", image).Error
}

// ModerateContest sets the moderation status of a contest that has not completed.
// Approval opens a contest whose lifecycle has not started; rejection leaves the
// lifecycle status as it is. It reports whether a row changed.
func (r *Repository) ModerateContest(ctx context.Context, id uuid.UUID, status models.ModerationStatus) (bool, error) {
	updates := map[string]interface{}{"status": status}
	if status == models.ModerationApproved {
		updates["contest_status"] = gorm.Expr(
			"CASE WHEN contest_status IS NULL OR contest_status = ? THEN ? ELSE contest_status END",
			models.ContestStatusUnset, models.ContestStatusOpen,
		)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ? AND (contest_status IS NULL OR contest_status <> ?)", id, models.ContestStatusCompleted).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CompleteContest moves an open contest to completed and records its winner.
// It reports false when the contest was not open.
func (r *Repository) CompleteContest(ctx context.Context, id uuid.UUID, winner WinnerUpdate) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ? AND contest_status = ?", id, models.ContestStatusOpen).
		Updates(map[string]interface{}{
			"contest_status":       models.ContestStatusCompleted,
			"winner_email":         winner.Email,
			"winner_name":          winner.Name,
			"winner_submission_id": winner.SubmissionID,
			"completed_at":         winner.CompletedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteContest removes a contest with its participants and submissions.
// Payments stay as financial records. Call inside Transaction.
func (r *Repository) DeleteContest(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("contest_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
		return err
	}
	if err := db.Where("contest_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&models.Contest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
