package payments

import (
	"testing"

	"github.com/stripe/stripe-go/v76"
)

func TestToSessionPrefersPaymentIntent(t *testing.T) {
	s := toSession(&stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"},
		AmountTotal:   1000,
		Currency:      stripe.CurrencyUSD,
		Metadata:      map[string]string{"contestId": "c1"},
	})

	if s.TransactionID != "pi_1" {
		t.Errorf("expected payment intent id, got %s", s.TransactionID)
	}
	if !s.Paid() {
		t.Errorf("expected session to be paid")
	}
	if s.Currency != "usd" {
		t.Errorf("expected usd, got %s", s.Currency)
	}
}

func TestToSessionFallsBackToSessionID(t *testing.T) {
	s := toSession(&stripe.CheckoutSession{
		ID:              "cs_test_2",
		PaymentStatus:   stripe.CheckoutSessionPaymentStatusUnpaid,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "buyer@example.com"},
	})

	if s.TransactionID != "cs_test_2" {
		t.Errorf("expected session id fallback, got %s", s.TransactionID)
	}
	if s.Paid() {
		t.Errorf("unpaid session reported as paid")
	}
	if s.CustomerEmail != "buyer@example.com" {
		t.Errorf("expected customer details email, got %s", s.CustomerEmail)
	}
}
