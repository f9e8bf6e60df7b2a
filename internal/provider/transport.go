// Package provider holds the outbound HTTP clients for the billing, social
// and storage APIs, plus the transport they share.
package provider

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPClient returns a client whose transport emits a client span per
// request. The timeout bounds the whole exchange, body included.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Observe records one upstream call. status is 0 when no response arrived.
func Observe(m *observability.Metrics, provider, operation string, status int, start time.Time) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(provider, operation, label).Inc()
	m.UpstreamDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}
