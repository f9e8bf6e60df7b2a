package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/pkg/retry"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client and waits until the server answers PING,
// retrying with backoff as configured for the store.
func NewClient(ctx context.Context, cfg *config.RedisConfig, store *config.StoreConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	rc := retry.DefaultConfig("connect redis")
	rc.MaxAttempts = store.ConnectAttempts
	if store.ConnectDelay > 0 {
		rc.InitialDelay = store.ConnectDelay
	}

	err := retry.Do(ctx, rc, func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}

	return client, nil
}
