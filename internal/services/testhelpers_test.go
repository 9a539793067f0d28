package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/database"
	"contesto/internal/models"
	"contesto/internal/payments"
	"contesto/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *repository.Repository {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return repository.NewRepository(db)
}

func seedUser(t *testing.T, repo *repository.Repository, email string, role models.Role) *models.User {
	user := &models.User{Email: email, Name: "User " + email, Role: role}
	if _, err := repo.CreateUserIfAbsent(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// clock is a settable time source for services
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func expectKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !apperr.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

// openContest creates an approved, open contest owned by creator ending at end
func openContest(t *testing.T, svc *ContestService, creator string, end time.Time) *models.Contest {
	ctx := context.Background()
	contest, err := svc.Create(ctx, creator, ContestInput{
		Name:               "Poster Challenge",
		Category:           "design",
		EntryFee:           decimal.RequireFromString("9.99"),
		PrizeMoney:         decimal.NewFromInt(250),
		ParticipationEndAt: end,
	})
	if err != nil {
		t.Fatalf("create contest: %v", err)
	}
	contest, err = svc.Moderate(ctx, contest.ID, models.ModerationApproved)
	if err != nil {
		t.Fatalf("approve contest: %v", err)
	}
	return contest
}

func join(t *testing.T, repo *repository.Repository, contestID uuid.UUID, email string) {
	if _, err := repo.CreateParticipantIfAbsent(context.Background(), &models.Participant{ContestID: contestID, UserEmail: email}); err != nil {
		t.Fatalf("join %s: %v", email, err)
	}
}

type fakeProvider struct {
	sessions map[string]*payments.Session
	requests []payments.CheckoutRequest
	getErr   error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{sessions: map[string]*payments.Session{}}
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.Session, error) {
	f.requests = append(f.requests, req)
	id := "cs_test_" + uuid.NewString()[:8]
	s := &payments.Session{
		ID:            id,
		URL:           "https://checkout.example/" + id,
		PaymentStatus: "unpaid",
		TransactionID: id,
		CustomerEmail: req.CustomerEmail,
		AmountTotal:   req.UnitAmount,
		Currency:      req.Currency,
		Metadata:      req.Metadata,
	}
	f.sessions[id] = s
	return s, nil
}

func (f *fakeProvider) GetCheckoutSession(_ context.Context, id string) (*payments.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	copied := *s
	return &copied, nil
}

// settle marks a session as paid with a payment intent id
func (f *fakeProvider) settle(id string) {
	s := f.sessions[id]
	s.PaymentStatus = "paid"
	s.TransactionID = "pi_" + id
}
