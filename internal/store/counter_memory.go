package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/timequota/internal/quota"
)

type counter struct {
	value     int64
	expiresAt time.Time
}

// MemoryCounterStore is an in-process implementation of quota.CappedStore.
// Its counters are local to the process and expire against its clock.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]counter
	now      func() time.Time
}

// MemoryOption configures a MemoryCounterStore.
type MemoryOption func(*MemoryCounterStore)

// WithClock replaces the clock used to expire counters.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryCounterStore) {
		s.now = now
	}
}

// NewMemoryCounterStore creates a new in-memory counter store.
func NewMemoryCounterStore(opts ...MemoryOption) *MemoryCounterStore {
	s := &MemoryCounterStore{
		counters: make(map[string]counter),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MemoryCounterStore) Get(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.live(key).value, nil
}

func (s *MemoryCounterStore) Consume(ctx context.Context, key string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.increment(key, ttl)

	return nil
}

func (s *MemoryCounterStore) ConsumeBelow(
	ctx context.Context, key string, limit int64, ttl time.Duration,
) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.live(key).value
	if current >= limit {
		return current, false, nil
	}

	s.increment(key, ttl)

	return current, true, nil
}

// TTL returns the time left before key expires, or zero when it is absent.
func (s *MemoryCounterStore) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok {
		return 0
	}

	ttl := c.expiresAt.Sub(s.now())
	if ttl < 0 {
		return 0
	}

	return ttl
}

// Ping always succeeds.
func (s *MemoryCounterStore) Ping(_ context.Context) error {
	return nil
}

// live returns the counter for key, dropping it first when it has expired.
func (s *MemoryCounterStore) live(key string) counter {
	c, ok := s.counters[key]
	if ok && !s.now().Before(c.expiresAt) {
		delete(s.counters, key)

		return counter{}
	}

	return c
}

func (s *MemoryCounterStore) increment(key string, ttl time.Duration) {
	c := s.live(key)
	c.value++
	c.expiresAt = s.now().Add(ttl)
	s.counters[key] = c
}

// Compile-time check.
var _ quota.CappedStore = (*MemoryCounterStore)(nil)
