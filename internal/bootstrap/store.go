package bootstrap

import (
	"context"
	"fmt"

	"github.com/cassiomorais/checkout/internal/domain/reconciliation"
	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	dynamoinfra "github.com/cassiomorais/checkout/internal/infrastructure/dynamodb"
	redisinfra "github.com/cassiomorais/checkout/internal/infrastructure/redis"
	dynamorepo "github.com/cassiomorais/checkout/internal/repository/dynamodb"
	"github.com/cassiomorais/checkout/internal/repository/file"
	"github.com/cassiomorais/checkout/internal/repository/postgres"
	redisrepo "github.com/cassiomorais/checkout/internal/repository/redis"
	"github.com/cassiomorais/checkout/pkg/retry"
	"github.com/rs/zerolog/log"
)

// openStore builds the configured paid set backend. Remote backends are
// retried until reachable; the returned func releases their clients.
func openStore(ctx context.Context, cfg *config.Config) (reconciliation.Repository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		log.Info().Str("path", cfg.Store.FilePath).Msg("Using file store")
		return file.NewPaidSetRepository(cfg.Store.FilePath), func() {}, nil

	case config.BackendRedis:
		client, err := redisinfra.NewClient(ctx, &cfg.Redis, &cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Connected to Redis")
		return redisrepo.NewPaidSetRepository(client, cfg.Redis.Key), func() { client.Close() }, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, &cfg.Database, &cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("Connected to PostgreSQL")
		return postgres.NewPaidSetRepository(pool), pool.Close, nil

	case config.BackendDynamoDB:
		client, err := dynamoinfra.NewClient(ctx, &cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		repo := dynamorepo.NewPaidSetRepository(client, cfg.DynamoDB.Table)
		err = retry.Do(ctx, connectRetry("describe dynamodb table", &cfg.Store), func() error {
			return repo.Ping(ctx)
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("table", cfg.DynamoDB.Table).Msg("Connected to DynamoDB")
		return repo, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func connectRetry(operation string, store *config.StoreConfig) retry.Config {
	rc := retry.DefaultConfig(operation)
	rc.MaxAttempts = store.ConnectAttempts
	if store.ConnectDelay > 0 {
		rc.InitialDelay = store.ConnectDelay
	}
	return rc
}
