package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PaidSetRepository keeps paid references as members of one Redis set, so
// SADD gives set semantics and atomicity across replicas.
type PaidSetRepository struct {
	client redis.Cmdable
	key    string
}

func NewPaidSetRepository(client redis.Cmdable, key string) *PaidSetRepository {
	return &PaidSetRepository{client: client, key: key}
}

func (r *PaidSetRepository) MarkPaid(ctx context.Context, externalReference string) error {
	if err := r.client.SAdd(ctx, r.key, externalReference).Err(); err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

func (r *PaidSetRepository) IsPaid(ctx context.Context, externalReference string) (bool, error) {
	paid, err := r.client.SIsMember(ctx, r.key, externalReference).Result()
	if err != nil {
		return false, fmt.Errorf("is paid: %w", err)
	}
	return paid, nil
}

func (r *PaidSetRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
