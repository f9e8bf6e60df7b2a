// Package repository holds the paid-set backends and the decorators shared
// by all of them.
package repository

import (
	"context"
	"time"

	"github.com/cassiomorais/checkout/internal/domain/reconciliation"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
)

// InstrumentedRepository records count and latency of every paid-set call.
type InstrumentedRepository struct {
	next    reconciliation.Repository
	backend string
	metrics *observability.Metrics
}

func NewInstrumented(next reconciliation.Repository, backend string, m *observability.Metrics) *InstrumentedRepository {
	return &InstrumentedRepository{next: next, backend: backend, metrics: m}
}

func (r *InstrumentedRepository) MarkPaid(ctx context.Context, externalReference string) error {
	start := time.Now()
	err := r.next.MarkPaid(ctx, externalReference)
	r.observe("mark_paid", start, err)
	return err
}

func (r *InstrumentedRepository) IsPaid(ctx context.Context, externalReference string) (bool, error) {
	start := time.Now()
	paid, err := r.next.IsPaid(ctx, externalReference)
	r.observe("is_paid", start, err)
	return paid, err
}

func (r *InstrumentedRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.next.Ping(ctx)
	r.observe("ping", start, err)
	return err
}

func (r *InstrumentedRepository) observe(operation string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.metrics.StoreOperations.WithLabelValues(r.backend, operation, result).Inc()
	r.metrics.StoreDuration.WithLabelValues(r.backend, operation).Observe(time.Since(start).Seconds())
}
