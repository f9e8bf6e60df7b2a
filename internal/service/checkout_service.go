package service

import (
	"context"
	"time"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/payment"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/rs/zerolog/log"
)

// CheckoutService creates charges at the billing provider.
type CheckoutService struct {
	gateway        BillingGateway
	defaultDueDays int
	metrics        *observability.Metrics
	nowFunc        func() time.Time
}

func NewCheckoutService(gateway BillingGateway, defaultDueDays int, m *observability.Metrics) *CheckoutService {
	return &CheckoutService{
		gateway:        gateway,
		defaultDueDays: defaultDueDays,
		metrics:        m,
		nowFunc:        time.Now,
	}
}

// CreateCharge validates req, registers the customer unless the charge is
// by card, creates the charge and, for PIX, attaches the QR code. A QR code
// failure does not fail the charge.
func (s *CheckoutService) CreateCharge(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	if !s.gateway.Configured() {
		return nil, domainErrors.ErrMissingAPIKey
	}
	if err := req.Prepare(s.nowFunc(), s.defaultDueDays); err != nil {
		return nil, err
	}

	charge, err := s.create(ctx, req)
	if err != nil {
		s.count(req.BillingType, "error")
		return nil, err
	}
	s.count(req.BillingType, "created")

	logger := log.With().
		Str("external_reference", charge.ExternalReference).
		Str("payment_id", charge.ID).
		Str("billing_type", string(charge.BillingType)).
		Logger()
	logger.Info().Msg("charge created")

	if charge.BillingType == payment.BillingBoleto && charge.IdentificationField == "" {
		charge.IdentificationField = charge.NossoNumero
	}

	if charge.BillingType == payment.BillingPix && charge.ID != "" {
		qr, err := s.gateway.GetPixQrCode(ctx, charge.ID)
		if err != nil {
			logger.Warn().Err(err).Msg("pix qr code unavailable")
		} else {
			charge.PixQrCode = qr
		}
	}

	return charge, nil
}

func (s *CheckoutService) create(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	var customerID string
	if req.BillingType != payment.BillingCreditCard {
		id, err := s.gateway.CreateCustomer(ctx, req.Customer)
		if err != nil {
			return nil, err
		}
		customerID = id
	}
	return s.gateway.CreatePayment(ctx, req, customerID)
}

func (s *CheckoutService) count(bt payment.BillingType, result string) {
	if s.metrics != nil {
		s.metrics.ChargesCreated.WithLabelValues(string(bt), result).Inc()
	}
}
