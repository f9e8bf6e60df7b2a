package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/reconciliation"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/rs/zerolog/log"
)

// ReconciliationService turns billing webhooks into paid references and
// answers status checks against the same store.
type ReconciliationService struct {
	repo         reconciliation.Repository
	webhookToken string
	metrics      *observability.Metrics
}

// NewReconciliationService creates a new ReconciliationService. An empty
// webhookToken disables the token check.
func NewReconciliationService(repo reconciliation.Repository, webhookToken string, m *observability.Metrics) *ReconciliationService {
	return &ReconciliationService{
		repo:         repo,
		webhookToken: webhookToken,
		metrics:      m,
	}
}

// VerifyWebhookToken compares the header value in constant time.
func (s *ReconciliationService) VerifyWebhookToken(token string) error {
	if s.webhookToken == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.webhookToken)) != 1 {
		s.countWebhook("", "unauthorized")
		log.Warn().Bool("token_present", token != "").Msg("webhook rejected: invalid token")
		return domainErrors.ErrInvalidWebhookToken
	}
	return nil
}

// HandleWebhook authenticates and applies one delivery. It reports whether
// the paid set was written. Redeliveries are harmless because MarkPaid is
// a set insert.
func (s *ReconciliationService) HandleWebhook(ctx context.Context, token string, body []byte) (bool, error) {
	if err := s.VerifyWebhookToken(token); err != nil {
		return false, err
	}

	var event reconciliation.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.countWebhook("", "invalid")
		return false, fmt.Errorf("%w: %v", domainErrors.ErrInvalidWebhookBody, err)
	}

	if !event.Event.SettlesPayment() {
		s.countWebhook(event.Event, "ignored")
		log.Debug().Str("event", string(event.Event)).Msg("webhook event ignored")
		return false, nil
	}

	ref := event.Reference()
	if ref == "" {
		s.countWebhook(event.Event, "ignored")
		log.Warn().Str("event", string(event.Event)).Str("payment_id", event.Payment.ID).
			Msg("settling webhook without external reference")
		return false, nil
	}

	if err := s.repo.MarkPaid(ctx, ref); err != nil {
		s.countWebhook(event.Event, "error")
		return false, fmt.Errorf("record payment %s: %w", ref, err)
	}

	s.countWebhook(event.Event, "applied")
	logger := observability.WithReference(log.Logger, ref)
	logger.Info().Str("event", string(event.Event)).Msg("payment marked as paid")
	return true, nil
}

// Status reports PAID once a settling webhook was recorded for ref. Store
// read failures are logged and reported as PENDING.
func (s *ReconciliationService) Status(ctx context.Context, ref string) (reconciliation.PaymentStatus, error) {
	if ref == "" {
		return "", domainErrors.NewValidationError("ref", "is required")
	}

	paid, err := s.repo.IsPaid(ctx, ref)
	if err != nil {
		logger := observability.WithReference(log.Logger, ref)
		logger.Warn().Err(err).Msg("paid set read failed, reporting pending")
		paid = false
	}

	status := reconciliation.StatusOf(paid)
	if s.metrics != nil {
		s.metrics.StatusChecks.WithLabelValues(string(status)).Inc()
	}
	return status, nil
}

// Ready checks the backing store.
func (s *ReconciliationService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *ReconciliationService) countWebhook(event reconciliation.EventType, outcome string) {
	if s.metrics == nil {
		return
	}
	label := string(event)
	if label == "" {
		label = "unknown"
	}
	s.metrics.WebhooksReceived.WithLabelValues(label, outcome).Inc()
}
