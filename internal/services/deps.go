package services

import (
	"context"
	"io"

	"contesto/internal/payments"
)

// CheckoutProvider creates and retrieves hosted checkout sessions
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.Session, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*payments.Session, error)
}

// ImageStore persists uploaded contest images and returns their public URL
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
