package service

import (
	"context"
	"io"

	"github.com/cassiomorais/checkout/internal/domain/instagram"
	"github.com/cassiomorais/checkout/internal/domain/media"
	"github.com/cassiomorais/checkout/internal/domain/payment"
)

// BillingGateway creates customers and charges at the payment provider.
type BillingGateway interface {
	Configured() bool
	CreateCustomer(ctx context.Context, customer payment.Customer) (string, error)
	CreatePayment(ctx context.Context, req payment.ChargeRequest, customerID string) (*payment.Charge, error)
	GetPixQrCode(ctx context.Context, paymentID string) (*payment.PixQrCode, error)
}

// SocialProvider reads public Instagram data.
type SocialProvider interface {
	Configured() bool
	Profile(ctx context.Context, username string) (*instagram.Profile, error)
	Posts(ctx context.Context, username string) ([]instagram.Post, error)
}

// ObjectStorage stores uploaded media.
type ObjectStorage interface {
	Configured() bool
	Upload(ctx context.Context, name, contentType string, size int64, body io.Reader, progress media.ProgressFunc) (*media.Object, error)
}
