package controller

import (
	"net/http"
	"time"

	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/checkout/internal/middleware"
	"github.com/cassiomorais/checkout/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

// jsonBodyLimit bounds webhook and charge payloads.
const jsonBodyLimit = 1 << 20

type RouterDeps struct {
	Store                 Pinger
	ReconciliationService *service.ReconciliationService
	CheckoutService       *service.CheckoutService
	InstagramService      *service.InstagramService
	MediaService          *service.MediaService
	Metrics               *observability.Metrics
	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer       prometheus.Gatherer
	TracerProvider trace.TracerProvider
	Server         config.ServerConfig
	MediaMaxBytes  int64
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing(deps.TracerProvider))
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", WebhookTokenHeader},
		AllowCredentials: deps.Server.CORS.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Store)
	reconciliationH := NewReconciliationController(deps.ReconciliationService)
	checkoutH := NewCheckoutController(deps.CheckoutService)
	instagramH := NewInstagramController(deps.InstagramService)
	mediaH := NewMediaController(deps.MediaService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(customMW.SecurityHeaders())

		// Webhook deliveries are authenticated by token and never throttled;
		// a 429 here would delay settlement until Asaas retries.
		r.With(chimw.Timeout(60*time.Second), customMW.MaxBodySize(jsonBodyLimit)).
			Post("/webhooks/asaas", reconciliationH.AsaasWebhook)

		r.Group(func(r chi.Router) {
			r.Use(customMW.RateLimit(deps.Server.RateLimit, time.Minute))

			r.Group(func(r chi.Router) {
				r.Use(chimw.Timeout(60 * time.Second))
				r.Use(customMW.MaxBodySize(jsonBodyLimit))

				// Payments
				r.Get("/status", reconciliationH.Status)
				r.Post("/asaas", checkoutH.CreateCharge)

				// Instagram
				r.Get("/instagram/{username}", instagramH.Overview)
				r.Get("/instagram/{username}/profile", instagramH.Profile)
				r.Get("/instagram/{username}/posts", instagramH.Posts)
			})

			// Uploads are bounded by the storage client timeout instead.
			r.With(customMW.MaxBodySize(deps.MediaMaxBytes+jsonBodyLimit)).Post("/media", mediaH.Upload)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found", Code: "not_found"})
	})

	return r
}
