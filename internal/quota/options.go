package quota

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithLimit sets the number of calls admitted per key per window.
func WithLimit(limit int64) Option {
	return func(t *Tracker) {
		t.limit = limit
	}
}

// WithTimeout bounds every store call. Zero leaves the caller's context untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Tracker) {
		t.timeout = timeout
	}
}

// WithLogger sets the logger used for admission and rejection records.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithAtomicAdmission makes the tracker check and increment in a single store operation,
// so a counter can never pass its limit. The store must implement CappedStore.
func WithAtomicAdmission() Option {
	return func(t *Tracker) {
		t.atomic = true
	}
}
