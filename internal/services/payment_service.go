package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/models"
	"contesto/internal/payments"
	"contesto/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	metaContestID   = "contestId"
	metaEmail       = "email"
	metaContestName = "contestName"
)

// PaymentService turns hosted checkouts into contest participation
type PaymentService struct {
	repo       *repository.Repository
	provider   CheckoutProvider
	siteDomain string
	currency   string

	// Now is the clock used for deadline checks
	Now func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(repo *repository.Repository, provider CheckoutProvider, siteDomain, currency string) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		repo:       repo,
		provider:   provider,
		siteDomain: strings.TrimRight(siteDomain, "/"),
		currency:   strings.ToLower(currency),
		Now:        time.Now,
	}
}

// CheckoutResult is returned to the client to redirect to the hosted page
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// VerifyResult reports the outcome of a payment verification
type VerifyResult struct {
	Success            bool            `json:"success"`
	AlreadyVerified    bool            `json:"alreadyVerified"`
	TransactionID      string          `json:"transactionId,omitempty"`
	PaymentStatus      string          `json:"paymentStatus,omitempty"`
	Payment            *models.Payment `json:"payment,omitempty"`
	ParticipantCreated bool            `json:"participantCreated"`
}

// MinorUnits converts a decimal amount to the provider's smallest currency unit
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// CreateCheckout opens a hosted checkout for the contest entry fee
func (s *PaymentService) CreateCheckout(ctx context.Context, email string, contestID uuid.UUID) (*CheckoutResult, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, "user not found")
	}
	if user.Role == models.RoleAdmin || user.Role == models.RoleCreator {
		return nil, apperr.Forbidden("admins and creators cannot join contests")
	}

	contest, err := s.repo.GetContestByID(ctx, contestID)
	if err != nil {
		return nil, lookupError(err, "contest not found")
	}
	if !contest.IsOpen() {
		return nil, apperr.Validation("contest is not open for participation")
	}
	if !s.Now().Before(contest.ParticipationEndAt) {
		return nil, apperr.Validation("contest participation has ended")
	}

	joined, err := s.repo.IsParticipant(ctx, contestID, email)
	if err != nil {
		return nil, apperr.Internal("check participation", err)
	}
	if joined {
		return nil, apperr.Conflict("already a participant")
	}

	amount := MinorUnits(contest.EntryFee)
	if amount <= 0 {
		return nil, apperr.Validation("contest has no entry fee to pay")
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		ProductName:   contest.Name,
		UnitAmount:    amount,
		Currency:      s.currency,
		CustomerEmail: email,
		SuccessURL:    s.siteDomain + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     fmt.Sprintf("%s/contests/%s", s.siteDomain, url.PathEscape(contest.ID.String())),
		Metadata: map[string]string{
			metaContestID:   contest.ID.String(),
			metaEmail:       email,
			metaContestName: contest.Name,
		},
	})
	if err != nil {
		return nil, apperr.Upstream("payment provider error", err)
	}

	log.Printf("[PaymentService] checkout session %s created for %s on contest %s", session.ID, email, contest.ID)
	return &CheckoutResult{URL: session.URL, SessionID: session.ID}, nil
}

// VerifyPayment reconciles a checkout session into exactly one Payment and one Participant.
// Replays and lost races report AlreadyVerified without writing.
func (s *PaymentService) VerifyPayment(ctx context.Context, email, sessionID string) (*VerifyResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperr.Validation("session_id is required")
	}
	email = NormalizeEmail(email)

	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Upstream("payment provider error", err)
	}

	buyer := NormalizeEmail(session.Metadata[metaEmail])
	if buyer == "" {
		buyer = NormalizeEmail(session.CustomerEmail)
	}
	if buyer != email {
		return nil, apperr.Forbidden("checkout session belongs to another user")
	}

	existing, err := s.repo.GetPaymentByTransactionID(ctx, session.TransactionID)
	if err == nil {
		return &VerifyResult{Success: true, AlreadyVerified: true, TransactionID: existing.TransactionID, PaymentStatus: string(existing.PaymentStatus)}, nil
	}
	if !repository.IsNotFound(err) {
		return nil, apperr.Internal("load payment", err)
	}

	if !session.Paid() {
		return &VerifyResult{Success: false, TransactionID: session.TransactionID, PaymentStatus: session.PaymentStatus}, nil
	}

	contestID, err := uuid.Parse(session.Metadata[metaContestID])
	if err != nil {
		return nil, apperr.Validation("checkout session is not linked to a contest")
	}

	contestName := session.Metadata[metaContestName]
	if contestName == "" {
		if contest, err := s.repo.GetContestByID(ctx, contestID); err == nil {
			contestName = contest.Name
		}
	}

	result := &VerifyResult{Success: true, TransactionID: session.TransactionID, PaymentStatus: session.PaymentStatus}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		payment := &models.Payment{
			TransactionID: session.TransactionID,
			SessionID:     session.ID,
			ContestID:     contestID,
			ContestName:   contestName,
			UserEmail:     buyer,
			Amount:        decimal.New(session.AmountTotal, -2),
			Currency:      session.Currency,
			PaymentStatus: models.PaymentStatusPaid,
			PaidAt:        s.Now().UTC(),
		}
		inserted, err := tx.CreatePaymentIfAbsent(ctx, payment)
		if err != nil {
			return apperr.Internal("record payment", err)
		}
		if !inserted {
			result.AlreadyVerified = true
			return nil
		}
		result.Payment = payment

		created, err := tx.CreateParticipantIfAbsent(ctx, &models.Participant{
			ContestID:     contestID,
			UserEmail:     buyer,
			PaymentID:     &payment.ID,
			TransactionID: payment.TransactionID,
			JoinedAt:      payment.PaidAt,
		})
		if err != nil {
			return apperr.Internal("record participant", err)
		}
		result.ParticipantCreated = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyVerified {
		log.Printf("[PaymentService] payment %s verified for %s on contest %s", result.TransactionID, buyer, contestID)
	}
	return result, nil
}

// HasPaid reports whether the caller participates in the contest
func (s *PaymentService) HasPaid(ctx context.Context, email string, contestID uuid.UUID) (bool, error) {
	joined, err := s.repo.IsParticipant(ctx, contestID, NormalizeEmail(email))
	if err != nil {
		return false, apperr.Internal("check participation", err)
	}
	return joined, nil
}

// History lists the caller's payments, newest first
func (s *PaymentService) History(ctx context.Context, email string) ([]models.Payment, error) {
	list, err := s.repo.ListPaymentsByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, apperr.Internal("list payments", err)
	}
	return list, nil
}
