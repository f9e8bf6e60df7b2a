package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface used by the repository; *pgxpool.Pool satisfies it.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PaidSetRepository stores paid references in the paid_references table. The
// primary key turns a repeated insert into a no-op.
type PaidSetRepository struct {
	db DBTX
}

func NewPaidSetRepository(db DBTX) *PaidSetRepository {
	return &PaidSetRepository{db: db}
}

func (r *PaidSetRepository) MarkPaid(ctx context.Context, externalReference string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO paid_references (external_reference, paid_at)
		 VALUES ($1, NOW())
		 ON CONFLICT (external_reference) DO NOTHING`,
		externalReference,
	)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

func (r *PaidSetRepository) IsPaid(ctx context.Context, externalReference string) (bool, error) {
	var paid bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM paid_references WHERE external_reference = $1)`,
		externalReference,
	).Scan(&paid)
	if err != nil {
		return false, fmt.Errorf("is paid: %w", err)
	}
	return paid, nil
}

func (r *PaidSetRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
