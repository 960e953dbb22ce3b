package quota_test

import (
	"testing"
	"time"

	"github.com/serroba/timequota/internal/quota"
	"github.com/stretchr/testify/assert"
)

func TestRemainingSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		second   int
		expected int64
	}{
		{name: "mid window", second: 37, expected: 23},
		{name: "on the boundary gets a full window", second: 0, expected: 60},
		{name: "last second", second: 59, expected: 1},
		{name: "first second after boundary", second: 1, expected: 59},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			now := time.Date(2026, 10, 17, 9, 15, tt.second, 500_000_000, time.UTC)

			assert.Equal(t, tt.expected, quota.RemainingSeconds(now))
			assert.Equal(t, time.Duration(tt.expected)*time.Second, quota.ResetAfter(now))
		})
	}
}

func TestRemainingSeconds_IgnoresLocation(t *testing.T) {
	t.Parallel()

	utc := time.Date(2026, 10, 17, 9, 15, 42, 0, time.UTC)
	local := utc.In(time.FixedZone("UTC+5:30", 5*60*60+30*60))

	assert.Equal(t, quota.RemainingSeconds(utc), quota.RemainingSeconds(local))
}
