package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/cassiomorais/checkout/internal/domain/reconciliation"
	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/cassiomorais/checkout/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   reconciliation.Repository
	Metrics *observability.Metrics
	Tracer  *sdktrace.TracerProvider

	closers []func()
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout)
	log.Logger = logger
	logger.Info().Str("service", serviceName).Msg("Starting")

	app := &App{Config: cfg, Logger: logger}

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			app.Tracer = tp
			app.closers = append(app.closers, func() {
				observability.Shutdown(context.Background(), tp)
			})
			logger.Info().Msg("Tracing enabled")
		}
	}

	if cfg.Observability.EnableMetrics {
		app.Metrics = observability.NewMetrics(metricsNamespace, prometheus.DefaultRegisterer)
		logger.Info().Msg("Metrics initialized")
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	app.closers = append(app.closers, closeStore)
	app.Store = repository.NewInstrumented(store, cfg.Store.Backend, app.Metrics)
	logger.Info().Str("backend", cfg.Store.Backend).Msg("Paid set store ready")

	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
