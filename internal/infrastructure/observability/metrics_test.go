package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.WebhooksReceived.WithLabelValues("PAYMENT_RECEIVED", "applied").Inc()
	m.StatusChecks.WithLabelValues("PAID").Inc()
	m.StatusChecks.WithLabelValues("PAID").Inc()
	m.MediaUploadedBytes.Add(1024)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhooksReceived.WithLabelValues("PAYMENT_RECEIVED", "applied")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.StatusChecks.WithLabelValues("PAID")))
	assert.Equal(t, float64(1024), testutil.ToFloat64(m.MediaUploadedBytes))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["test_webhooks_received_total"])
	assert.True(t, names["test_status_checks_total"])
	assert.True(t, names["test_media_uploaded_bytes_total"])
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics("test", reg)

	assert.Panics(t, func() { NewMetrics("test", reg) })
}
