package provider

import (
	"testing"
	"time"

	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := observability.NewMetrics("test", prometheus.NewRegistry())

	Observe(m, "asaas", "create_payment", 200, time.Now())
	Observe(m, "asaas", "create_payment", 0, time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("asaas", "create_payment", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("asaas", "create_payment", "error")))
}

func TestObserve_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		Observe(nil, "asaas", "create_payment", 200, time.Now())
	})
}

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.NotNil(t, c.Transport)
}
