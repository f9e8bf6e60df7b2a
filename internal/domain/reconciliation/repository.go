package reconciliation

import "context"

// Repository is the durable paid set. Implementations must make MarkPaid a
// set-insert: marking the same reference twice leaves a single entry.
type Repository interface {
	// MarkPaid adds the reference to the paid set if it is not already there
	MarkPaid(ctx context.Context, externalReference string) error

	// IsPaid reports whether the reference is in the paid set
	IsPaid(ctx context.Context, externalReference string) (bool, error)

	// Ping checks that the backing storage is reachable
	Ping(ctx context.Context) error
}
