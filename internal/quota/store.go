package quota

import (
	"context"
	"time"
)

// Store defines the shared counter store the tracker reads and increments.
type Store interface {
	// Get returns the counter for key. A missing or expired key reads as 0.
	Get(ctx context.Context, key string) (int64, error)

	// Consume increments the counter for key by one and sets its expiry to ttl.
	// Both changes are applied as one transaction.
	Consume(ctx context.Context, key string, ttl time.Duration) error
}

// CappedStore is a Store that can check and increment a counter in one atomic step.
type CappedStore interface {
	Store

	// ConsumeBelow increments key and sets its expiry to ttl only when the current value
	// is below limit. It returns the value observed before the increment and whether the
	// increment happened.
	ConsumeBelow(ctx context.Context, key string, limit int64, ttl time.Duration) (count int64, consumed bool, err error)
}
