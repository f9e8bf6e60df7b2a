package client

import (
	"context"
	"time"

	"github.com/cassiomorais/checkout/internal/domain/reconciliation"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval matches the checkout page's polling cadence.
const DefaultPollInterval = 3 * time.Second

// StatusChecker reads the status of one reference.
type StatusChecker interface {
	Status(ctx context.Context, ref string) (reconciliation.PaymentStatus, error)
}

// Poller checks a reference at a fixed interval until it is paid.
type Poller struct {
	checker  StatusChecker
	interval time.Duration
}

// NewPoller returns a poller; a non-positive interval uses
// DefaultPollInterval.
func NewPoller(checker StatusChecker, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{checker: checker, interval: interval}
}

// Wait blocks until ref is reported PAID or ctx is done. A failed poll is
// logged and the next tick tries again.
func (p *Poller) Wait(ctx context.Context, ref string) (reconciliation.PaymentStatus, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger := observability.WithReference(log.Logger, ref)

	for {
		status, err := p.checker.Status(ctx, ref)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			logger.Warn().Err(err).Msg("status poll failed")
		case status == reconciliation.StatusPaid:
			return status, nil
		default:
			logger.Debug().Str("status", string(status)).Msg("payment not settled yet")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
