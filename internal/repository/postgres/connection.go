package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/pkg/retry"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "checkout"

// NewPool opens a pgx pool for the paid set and waits until the server
// answers a ping, retrying as configured for the store.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig, store *config.StoreConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	rc := retry.DefaultConfig("connect postgres")
	rc.MaxAttempts = store.ConnectAttempts
	if store.ConnectDelay > 0 {
		rc.InitialDelay = store.ConnectDelay
	}

	pool, err := retry.DoWithResult(ctx, rc, func() (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL at %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return pool, nil
}
