package quota

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// Limiter defines the admission check exposed to the routing layer.
type Limiter interface {
	// CheckAndConsume decides whether a call for key at now is admitted and records it if so.
	CheckAndConsume(ctx context.Context, key string, now time.Time) (Decision, error)
}

// Tracker implements Limiter with a fixed-window counter per key.
type Tracker struct {
	store   Store
	capped  CappedStore
	limit   int64
	timeout time.Duration
	atomic  bool
	logger  *zap.Logger
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		limit:  DefaultQuotaPerMinute,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, t.limit)
	}

	if t.atomic {
		capped, ok := store.(CappedStore)
		if !ok {
			return nil, ErrAtomicUnsupported
		}

		t.capped = capped
	}

	return t, nil
}

// Limit returns the configured quota.
func (t *Tracker) Limit() int64 {
	return t.limit
}

// CheckAndConsume reads the counter for key, rejects when it has reached the limit and
// otherwise increments it with an expiry at the end of the window containing now.
func (t *Tracker) CheckAndConsume(ctx context.Context, key string, now time.Time) (Decision, error) {
	if key == "" {
		return Decision{}, ErrEmptyKey
	}

	if t.capped != nil {
		return t.checkAndConsumeAtomic(ctx, key, now)
	}

	count, err := t.get(ctx, key)
	if err != nil {
		return Decision{}, err
	}

	if count >= t.limit {
		return t.reject(key, count, now), nil
	}

	if err := t.consume(ctx, key, now); err != nil {
		return Decision{}, err
	}

	return t.admit(key, count, now), nil
}

func (t *Tracker) checkAndConsumeAtomic(ctx context.Context, key string, now time.Time) (Decision, error) {
	ctx, cancel := t.storeContext(ctx)
	defer cancel()

	count, consumed, err := t.capped.ConsumeBelow(ctx, key, t.limit, ResetAfter(now))
	if err != nil {
		return Decision{}, storeError("consume below", err)
	}

	if !consumed {
		return t.reject(key, count, now), nil
	}

	return t.admit(key, count, now), nil
}

func (t *Tracker) get(ctx context.Context, key string) (int64, error) {
	ctx, cancel := t.storeContext(ctx)
	defer cancel()

	count, err := t.store.Get(ctx, key)
	if err != nil {
		return 0, storeError("get", err)
	}

	if count < 0 {
		return 0, fmt.Errorf("%w: key %q holds %d", ErrInvalidCounterValue, key, count)
	}

	return count, nil
}

func (t *Tracker) consume(ctx context.Context, key string, now time.Time) error {
	ctx, cancel := t.storeContext(ctx)
	defer cancel()

	if err := t.store.Consume(ctx, key, ResetAfter(now)); err != nil {
		return storeError("consume", err)
	}

	return nil
}

func (t *Tracker) admit(key string, count int64, now time.Time) Decision {
	t.logger.Debug("current quota",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int64("limit", t.limit),
	)

	return Decision{
		Allowed:    true,
		Key:        key,
		Count:      count,
		Limit:      t.limit,
		Message:    fmt.Sprintf("Current quota %s in %d/%d", key, count, t.limit),
		ResetAfter: ResetAfter(now),
	}
}

func (t *Tracker) reject(key string, count int64, now time.Time) Decision {
	msg := fmt.Sprintf("Rate limit reached %s %d/%d", key, count, t.limit)
	t.logger.Info("rate limit reached",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int64("limit", t.limit),
	)

	return Decision{
		Allowed:    false,
		Key:        key,
		Count:      count,
		Limit:      t.limit,
		Message:    msg,
		ResetAfter: ResetAfter(now),
	}
}

func (t *Tracker) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, t.timeout)
}

// storeError maps a store failure onto the package's error taxonomy, keeping the cause wrapped.
func storeError(op string, err error) error {
	var netErr net.Error

	switch {
	case errors.Is(err, ErrInvalidCounterValue):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
}

// Compile-time check.
var _ Limiter = (*Tracker)(nil)
