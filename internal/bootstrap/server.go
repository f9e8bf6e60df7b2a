package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cassiomorais/checkout/internal/controller"
	"github.com/cassiomorais/checkout/internal/provider/asaas"
	"github.com/cassiomorais/checkout/internal/provider/firebase"
	"github.com/cassiomorais/checkout/internal/provider/rapidapi"
	"github.com/cassiomorais/checkout/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Handler wires providers and services into the HTTP router. The storage
// client it opens is released by Close.
func (a *App) Handler(ctx context.Context) (http.Handler, error) {
	cfg := a.Config

	billing := asaas.NewClient(cfg.Asaas, asaas.WithMetrics(a.Metrics))
	social := rapidapi.NewClient(cfg.RapidAPI, rapidapi.WithMetrics(a.Metrics))
	storage, err := firebase.NewStorage(ctx, cfg.Firebase, firebase.WithMetrics(a.Metrics))
	if err != nil {
		return nil, fmt.Errorf("open firebase storage: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage client")
		}
	})

	if !billing.Configured() {
		a.Logger.Warn().Msg("Asaas API key not set, charge creation will fail")
	}
	if cfg.Asaas.WebhookToken == "" {
		a.Logger.Warn().Msg("Asaas webhook token not set, webhooks are accepted without authentication")
	}
	if !social.Configured() {
		a.Logger.Warn().Msg("RapidAPI credentials not set, Instagram routes will fail")
	}
	if !storage.Configured() {
		a.Logger.Warn().Msg("Firebase bucket not set, media uploads will fail")
	}

	deps := controller.RouterDeps{
		Store:                 a.Store,
		ReconciliationService: service.NewReconciliationService(a.Store, cfg.Asaas.WebhookToken, a.Metrics),
		CheckoutService:       service.NewCheckoutService(billing, cfg.Asaas.DefaultDueDays, a.Metrics),
		InstagramService:      service.NewInstagramService(social),
		MediaService:          service.NewMediaService(storage, cfg.Media.MaxBytes, a.Metrics),
		Metrics:               a.Metrics,
		Gatherer:              prometheus.DefaultGatherer,
		Server:                cfg.Server,
		MediaMaxBytes:         cfg.Media.MaxBytes,
	}
	if a.Tracer != nil {
		deps.TracerProvider = a.Tracer
	}

	return controller.NewRouter(deps), nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func (a *App) Serve(ctx context.Context, handler http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.Logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
