package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/cassiomorais/checkout/internal/domain/instagram"
	"github.com/cassiomorais/checkout/internal/domain/media"
	"github.com/cassiomorais/checkout/internal/domain/payment"
)

// --- Paid Set Repository Mock ---

// MockPaidSetRepository is an in-memory reconciliation.Repository. Set a
// Func field to override one call.
type MockPaidSetRepository struct {
	mu   sync.Mutex
	paid map[string]struct{}

	MarkPaidCalls int

	MarkPaidFunc func(ctx context.Context, externalReference string) error
	IsPaidFunc   func(ctx context.Context, externalReference string) (bool, error)
	PingFunc     func(ctx context.Context) error
}

func NewMockPaidSetRepository() *MockPaidSetRepository {
	return &MockPaidSetRepository{paid: make(map[string]struct{})}
}

func (m *MockPaidSetRepository) MarkPaid(ctx context.Context, externalReference string) error {
	m.mu.Lock()
	m.MarkPaidCalls++
	m.mu.Unlock()
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, externalReference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paid[externalReference] = struct{}{}
	return nil
}

func (m *MockPaidSetRepository) IsPaid(ctx context.Context, externalReference string) (bool, error) {
	if m.IsPaidFunc != nil {
		return m.IsPaidFunc(ctx, externalReference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.paid[externalReference]
	return ok, nil
}

func (m *MockPaidSetRepository) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Paid returns a snapshot of stored references.
func (m *MockPaidSetRepository) Paid() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.paid))
	for ref := range m.paid {
		out = append(out, ref)
	}
	return out
}

// --- Billing Gateway Mock ---

type MockBillingGateway struct {
	Unconfigured bool

	CreateCustomerFunc func(ctx context.Context, customer payment.Customer) (string, error)
	CreatePaymentFunc  func(ctx context.Context, req payment.ChargeRequest, customerID string) (*payment.Charge, error)
	GetPixQrCodeFunc   func(ctx context.Context, paymentID string) (*payment.PixQrCode, error)

	CustomerCalls int
	PixCalls      int
}

func (m *MockBillingGateway) Configured() bool {
	return !m.Unconfigured
}

func (m *MockBillingGateway) CreateCustomer(ctx context.Context, customer payment.Customer) (string, error) {
	m.CustomerCalls++
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, customer)
	}
	return "cus_test", nil
}

func (m *MockBillingGateway) CreatePayment(ctx context.Context, req payment.ChargeRequest, customerID string) (*payment.Charge, error) {
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, req, customerID)
	}
	return &payment.Charge{
		ID:                "pay_test",
		CustomerID:        customerID,
		Status:            "PENDING",
		BillingType:       req.BillingType,
		Value:             req.Value,
		DueDate:           req.DueDate,
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
	}, nil
}

func (m *MockBillingGateway) GetPixQrCode(ctx context.Context, paymentID string) (*payment.PixQrCode, error) {
	m.PixCalls++
	if m.GetPixQrCodeFunc != nil {
		return m.GetPixQrCodeFunc(ctx, paymentID)
	}
	return &payment.PixQrCode{EncodedImage: "aW1n", Payload: "00020126"}, nil
}

// --- Social Provider Mock ---

type MockSocialProvider struct {
	Unconfigured bool

	ProfileFunc func(ctx context.Context, username string) (*instagram.Profile, error)
	PostsFunc   func(ctx context.Context, username string) ([]instagram.Post, error)
}

func (m *MockSocialProvider) Configured() bool {
	return !m.Unconfigured
}

func (m *MockSocialProvider) Profile(ctx context.Context, username string) (*instagram.Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, username)
	}
	return &instagram.Profile{Username: username, FollowerCount: 100, FullName: "Test User"}, nil
}

func (m *MockSocialProvider) Posts(ctx context.Context, username string) ([]instagram.Post, error) {
	if m.PostsFunc != nil {
		return m.PostsFunc(ctx, username)
	}
	return []instagram.Post{{LikeCount: 1, MediaType: instagram.MediaImage}}, nil
}

// --- Object Storage Mock ---

type MockObjectStorage struct {
	Unconfigured bool

	UploadFunc func(ctx context.Context, name, contentType string, size int64, body io.Reader, progress media.ProgressFunc) (*media.Object, error)
}

func (m *MockObjectStorage) Configured() bool {
	return !m.Unconfigured
}

// Upload drains body, reporting progress, and echoes the object back.
func (m *MockObjectStorage) Upload(ctx context.Context, name, contentType string, size int64, body io.Reader, progress media.ProgressFunc) (*media.Object, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, name, contentType, size, body, progress)
	}
	n, err := io.Copy(io.Discard, body)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress(n, size)
	}
	return &media.Object{
		Name:        name,
		Bucket:      "test-bucket",
		ContentType: contentType,
		Size:        n,
		DownloadURL: "https://storage.test/" + name,
	}, nil
}
