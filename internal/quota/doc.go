// Package quota decides admission for rate-limited resources using a fixed-window
// counter held in a shared store.
//
// Every key owns one counter. A call reads the counter, rejects when it has reached the
// configured limit and otherwise increments it and sets its expiry to the end of the
// current wall-clock minute, both in a single store transaction:
//
//	dec, err := tracker.CheckAndConsume(ctx, "EXAMPLE::TIME", time.Now())
//
// # Windows
//
// Windows are aligned to minute boundaries rather than to the first call of a key. A
// counter written at 12:00:37 expires after 23 seconds; a call at exactly 12:01:00 gets a
// full 60 second window. The tracker never reads the system clock, callers pass now.
//
// # Concurrency
//
// Tracker holds no per-key state and is safe for concurrent use. The read and the
// increment are separate store round-trips, so concurrent callers that read the same
// value may all be admitted and push a counter past its limit by up to the number of
// racing callers minus one. WithAtomicAdmission replaces the pair with a single capped
// increment for stores implementing CappedStore.
//
// # Errors
//
// Rejection is a Decision with Allowed set to false, never an error. Store failures are
// reported as ErrStoreUnavailable, cancellation and deadlines as ErrTimeout, and counters
// that do not hold a non-negative integer as ErrInvalidCounterValue. The tracker does not
// retry and does not pick a fail-open or fail-closed policy on behalf of the caller.
package quota
