package services

import (
	"context"
	"testing"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/models"
)

func TestSubmissionRules(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	seedUser(t, repo, "creator@example.com", models.RoleCreator)
	seedUser(t, repo, "player@example.com", models.RoleUser)
	seedUser(t, repo, "outsider@example.com", models.RoleUser)

	contests := NewContestService(repo, nil, nil)
	contests.Now = clk.Now
	submissions := NewSubmissionService(repo)
	submissions.Now = clk.Now

	pending, err := contests.Create(ctx, "creator@example.com", ContestInput{
		Name: "Haiku", Category: "writing", ParticipationEndAt: clk.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	join(t, repo, pending.ID, "player@example.com")
	_, err = submissions.Create(ctx, "player@example.com", pending.ID, "an old silent pond")
	expectKind(t, err, apperr.KindForbidden)

	contest := openContest(t, contests, "creator@example.com", clk.now.Add(time.Hour))

	_, err = submissions.Create(ctx, "outsider@example.com", contest.ID, "entry")
	expectKind(t, err, apperr.KindForbidden)

	join(t, repo, contest.ID, "player@example.com")

	_, err = submissions.Create(ctx, "player@example.com", contest.ID, "   ")
	expectKind(t, err, apperr.KindValidation)

	entry, err := submissions.Create(ctx, "player@example.com", contest.ID, "first draft")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	if entry.Status != models.SubmissionPending || entry.UserName == "" {
		t.Errorf("unexpected submission %+v", entry)
	}

	_, err = submissions.Create(ctx, "player@example.com", contest.ID, "second draft")
	expectKind(t, err, apperr.KindConflict)

	updated, err := submissions.Update(ctx, "player@example.com", entry.ID, "final draft")
	if err != nil {
		t.Fatalf("update submission: %v", err)
	}
	if updated.SubmissionValue != "final draft" {
		t.Errorf("expected updated value, got %q", updated.SubmissionValue)
	}

	_, err = submissions.Update(ctx, "outsider@example.com", entry.ID, "hijack")
	expectKind(t, err, apperr.KindForbidden)

	mine, err := submissions.Mine(ctx, "player@example.com", contest.ID)
	if err != nil || mine.ID != entry.ID {
		t.Fatalf("Mine: %v %+v", err, mine)
	}
	_, err = submissions.Mine(ctx, "outsider@example.com", contest.ID)
	expectKind(t, err, apperr.KindNotFound)

	views, err := submissions.ListForCreator(ctx, "creator@example.com", contest.ID)
	if err != nil {
		t.Fatalf("ListForCreator: %v", err)
	}
	if len(views) != 1 || views[0].UserFullName != "User player@example.com" {
		t.Errorf("unexpected views %+v", views)
	}
	_, err = submissions.ListForCreator(ctx, "player@example.com", contest.ID)
	expectKind(t, err, apperr.KindForbidden)

	clk.now = clk.now.Add(2 * time.Hour)
	seedUser(t, repo, "late@example.com", models.RoleUser)
	join(t, repo, contest.ID, "late@example.com")
	_, err = submissions.Create(ctx, "late@example.com", contest.ID, "too late")
	expectKind(t, err, apperr.KindValidation)
}
