package quota

import (
	"errors"
	"strconv"
	"time"
)

var (
	// ErrEmptyKey is returned when CheckAndConsume is called without a key.
	ErrEmptyKey = errors.New("rate limit key is empty")
	// ErrStoreUnavailable reports a failed read or transaction against the counter store.
	ErrStoreUnavailable = errors.New("counter store unavailable")
	// ErrTimeout reports a store call that was cancelled or ran past its deadline.
	ErrTimeout = errors.New("counter store timeout")
	// ErrInvalidCounterValue reports a stored counter that is not a non-negative integer.
	ErrInvalidCounterValue = errors.New("invalid counter value")
	// ErrAtomicUnsupported is returned by NewTracker when atomic admission is requested
	// for a store that does not implement CappedStore.
	ErrAtomicUnsupported = errors.New("store does not support atomic admission")
	// ErrInvalidLimit is returned by NewTracker for a negative limit.
	ErrInvalidLimit = errors.New("quota limit must not be negative")
)

// DefaultQuotaPerMinute is the limit applied when none is configured.
const DefaultQuotaPerMinute int64 = 10

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed    bool
	Key        string
	Count      int64 // counter value observed before this call's increment
	Limit      int64
	Message    string
	ResetAfter time.Duration // time left until the window ends
}

// Remaining returns how many more calls the window admits after this one.
func (d Decision) Remaining() int64 {
	used := d.Count
	if d.Allowed {
		used++
	}

	if used >= d.Limit {
		return 0
	}

	return d.Limit - used
}

// RetryAfterSeconds formats ResetAfter for a Retry-After header.
func (d Decision) RetryAfterSeconds() string {
	return strconv.FormatInt(int64(d.ResetAfter/time.Second), 10)
}

// MetadataKey is the key used to attach an EndpointConfig to an operation's metadata.
const MetadataKey = "quota"

// EndpointConfig binds an HTTP operation to a rate limit key.
type EndpointConfig struct {
	// Key names the counter shared by every call to the endpoint.
	Key string
}
