package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Success(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("test", reg)

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	req := httptest.NewRequest("GET", "/api/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var foundRequestsTotal, foundDuration bool
	for _, mf := range metricFamilies {
		if *mf.Name == "test_http_requests_total" {
			foundRequestsTotal = true
		}
		if *mf.Name == "test_http_request_duration_seconds" {
			foundDuration = true
		}
	}
	assert.True(t, foundRequestsTotal, "http_requests_total metric should be recorded")
	assert.True(t, foundDuration, "http_request_duration metric should be recorded")
}

func TestMetrics_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"400 Bad Request", http.StatusBadRequest},
		{"401 Unauthorized", http.StatusUnauthorized},
		{"500 Internal Server Error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := observability.NewMetrics("test", prometheus.NewRegistry())

			r := chi.NewRouter()
			r.Use(Metrics(metrics))
			r.Post("/api/webhooks/asaas", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			req := httptest.NewRequest("POST", "/api/webhooks/asaas", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.statusCode, w.Code)
			got := promtest.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/api/webhooks/asaas", strconv.Itoa(tt.statusCode)))
			assert.Equal(t, 1.0, got)
		})
	}
}

func TestMetrics_RoutePattern(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Get("/api/instagram/{username}", func(w http.ResponseWriter, r *http.Request) {})

	for _, user := range []string{"nasa", "natgeo"} {
		req := httptest.NewRequest("GET", "/api/instagram/"+user, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := promtest.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/instagram/{username}", "200"))
	assert.Equal(t, 2.0, got)
}

func TestMetrics_NoRoutePattern(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	wrapped := Metrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/random/path", nil))

	got := promtest.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "200"))
	assert.Equal(t, 1.0, got)
}

func TestMetrics_NilMetrics(t *testing.T) {
	wrapped := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestStatusWriter_WriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

	sw.WriteHeader(http.StatusCreated)

	assert.Equal(t, http.StatusCreated, sw.statusCode)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Same(t, w, sw.Unwrap())
}

func TestStatusWriter_DefaultStatus(t *testing.T) {
	w := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

	sw.Write([]byte("test"))
	sw.WriteHeader(http.StatusInternalServerError)

	// the implicit 200 already went out
	assert.Equal(t, http.StatusOK, sw.statusCode)
}
