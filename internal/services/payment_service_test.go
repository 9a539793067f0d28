package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/models"

	"github.com/shopspring/decimal"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *ContestService, *fakeProvider, *clock) {
	repo := newTestRepo(t)
	clk := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	seedUser(t, repo, "creator@example.com", models.RoleCreator)
	seedUser(t, repo, "admin@example.com", models.RoleAdmin)
	seedUser(t, repo, "player@example.com", models.RoleUser)

	provider := newFakeProvider()
	paymentsSvc := NewPaymentService(repo, provider, "https://contesto.example/", "USD")
	paymentsSvc.Now = clk.Now
	contests := NewContestService(repo, nil, nil)
	contests.Now = clk.Now
	return paymentsSvc, contests, provider, clk
}

func TestMinorUnits(t *testing.T) {
	if got := MinorUnits(decimal.RequireFromString("9.99")); got != 999 {
		t.Errorf("expected 999, got %d", got)
	}
	if got := MinorUnits(decimal.RequireFromString("10.005")); got != 1001 {
		t.Errorf("expected 1001, got %d", got)
	}
}

func TestCheckoutAndVerifyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, contests, provider, clk := newPaymentFixture(t)
	contest := openContest(t, contests, "creator@example.com", clk.now.Add(time.Hour))

	checkout, err := svc.CreateCheckout(ctx, "player@example.com", contest.ID)
	if err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}
	if checkout.URL == "" || checkout.SessionID == "" {
		t.Fatalf("expected url and session id, got %+v", checkout)
	}

	req := provider.requests[0]
	if req.UnitAmount != 999 || req.Currency != "usd" {
		t.Errorf("unexpected amount/currency %d %s", req.UnitAmount, req.Currency)
	}
	if !strings.HasPrefix(req.SuccessURL, "https://contesto.example/payment-success?session_id=") {
		t.Errorf("unexpected success url %s", req.SuccessURL)
	}
	if req.Metadata["contestId"] != contest.ID.String() || req.Metadata["email"] != "player@example.com" {
		t.Errorf("unexpected metadata %v", req.Metadata)
	}

	unpaid, err := svc.VerifyPayment(ctx, "player@example.com", checkout.SessionID)
	if err != nil {
		t.Fatalf("verify unpaid: %v", err)
	}
	if unpaid.Success || unpaid.PaymentStatus != "unpaid" {
		t.Errorf("expected unpaid result, got %+v", unpaid)
	}

	provider.settle(checkout.SessionID)

	first, err := svc.VerifyPayment(ctx, "player@example.com", checkout.SessionID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !first.Success || first.AlreadyVerified || !first.ParticipantCreated {
		t.Errorf("unexpected first verification %+v", first)
	}
	if first.Payment == nil || !first.Payment.Amount.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("unexpected payment %+v", first.Payment)
	}

	second, err := svc.VerifyPayment(ctx, "player@example.com", checkout.SessionID)
	if err != nil {
		t.Fatalf("replay verify: %v", err)
	}
	if !second.Success || !second.AlreadyVerified {
		t.Errorf("expected replay to be already verified, got %+v", second)
	}

	_, err = svc.VerifyPayment(ctx, "intruder@example.com", checkout.SessionID)
	expectKind(t, err, apperr.KindForbidden)

	history, _ := svc.History(ctx, "player@example.com")
	if len(history) != 1 {
		t.Errorf("expected exactly one payment, got %d", len(history))
	}

	paid, _ := svc.HasPaid(ctx, "player@example.com", contest.ID)
	if !paid {
		t.Errorf("expected player to be a participant")
	}

	_, err = svc.CreateCheckout(ctx, "player@example.com", contest.ID)
	expectKind(t, err, apperr.KindConflict)
}

func TestCheckoutRejections(t *testing.T) {
	ctx := context.Background()
	svc, contests, _, clk := newPaymentFixture(t)
	contest := openContest(t, contests, "creator@example.com", clk.now.Add(time.Hour))

	_, err := svc.CreateCheckout(ctx, "creator@example.com", contest.ID)
	expectKind(t, err, apperr.KindForbidden)

	_, err = svc.CreateCheckout(ctx, "admin@example.com", contest.ID)
	expectKind(t, err, apperr.KindForbidden)

	pending, err := contests.Create(ctx, "creator@example.com", ContestInput{
		Name: "Pending", Category: "art", EntryFee: decimal.NewFromInt(5), ParticipationEndAt: clk.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.CreateCheckout(ctx, "player@example.com", pending.ID)
	expectKind(t, err, apperr.KindValidation)

	clk.now = clk.now.Add(2 * time.Hour)
	_, err = svc.CreateCheckout(ctx, "player@example.com", contest.ID)
	expectKind(t, err, apperr.KindValidation)
}

func TestVerifyPaymentErrors(t *testing.T) {
	ctx := context.Background()
	svc, contests, provider, clk := newPaymentFixture(t)
	contest := openContest(t, contests, "creator@example.com", clk.now.Add(time.Hour))

	_, err := svc.VerifyPayment(ctx, "player@example.com", "  ")
	expectKind(t, err, apperr.KindValidation)

	checkout, err := svc.CreateCheckout(ctx, "player@example.com", contest.ID)
	if err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}
	provider.settle(checkout.SessionID)

	_, err = svc.VerifyPayment(ctx, "someone@example.com", checkout.SessionID)
	expectKind(t, err, apperr.KindForbidden)

	provider.getErr = errors.New("stripe unavailable")
	_, err = svc.VerifyPayment(ctx, "player@example.com", checkout.SessionID)
	expectKind(t, err, apperr.KindUpstream)
}
