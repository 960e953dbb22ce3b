package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/serroba/timequota/internal/quota"
)

// parseCounter decodes a stored counter, which must be a non-negative decimal integer.
func parseCounter(key, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: key %q holds %q", quota.ErrInvalidCounterValue, key, raw)
	}

	return n, nil
}

// notIntegerError reports the error Redis returns when INCRBY hits a non-integer value.
func notIntegerError(key string, err error) error {
	if err != nil && strings.Contains(err.Error(), "not an integer") {
		return fmt.Errorf("%w: key %q: %w", quota.ErrInvalidCounterValue, key, err)
	}

	return err
}
