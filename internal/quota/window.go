package quota

import "time"

// Window is the length of a fixed window. Windows start at second zero of every minute.
const Window = time.Minute

// RemainingSeconds returns the seconds left in the window containing now.
// A call landing exactly on the boundary gets the full 60 seconds.
func RemainingSeconds(now time.Time) int64 {
	return int64(Window/time.Second) - int64(now.Second())
}

// ResetAfter returns RemainingSeconds as a duration, suitable as a counter TTL.
func ResetAfter(now time.Time) time.Duration {
	return time.Duration(RemainingSeconds(now)) * time.Second
}
