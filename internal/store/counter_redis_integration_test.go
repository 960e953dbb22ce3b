//go:build integration

package store_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/timequota/internal/quota"
	"github.com/serroba/timequota/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisCounterStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := store.NewRedisCounterStore(client)

	testKey := func(name string) string {
		return fmt.Sprintf("TEST::%s::%d", name, time.Now().UnixNano())
	}

	t.Run("missing key reads as zero", func(t *testing.T) {
		count, err := s.Get(ctx, testKey("absent"))

		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("consume increments and sets ttl", func(t *testing.T) {
		key := testKey("consume")
		defer client.Del(ctx, key)

		require.NoError(t, s.Consume(ctx, key, 23*time.Second))
		require.NoError(t, s.Consume(ctx, key, 23*time.Second))

		count, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		raw, _ := client.Get(ctx, key).Result()
		assert.Equal(t, "2", raw, "counters are stored as decimal strings")

		ttl, err := client.TTL(ctx, key).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 20*time.Second)
		assert.LessOrEqual(t, ttl, 23*time.Second)
	})

	t.Run("counter expires with its ttl", func(t *testing.T) {
		key := testKey("expire")

		require.NoError(t, s.Consume(ctx, key, time.Second))

		time.Sleep(1100 * time.Millisecond)

		count, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("non-integer value is invalid", func(t *testing.T) {
		key := testKey("invalid")
		defer client.Del(ctx, key)

		client.Set(ctx, key, "not-a-number", time.Minute)

		_, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, quota.ErrInvalidCounterValue)

		err = s.Consume(ctx, key, time.Minute)
		assert.ErrorIs(t, err, quota.ErrInvalidCounterValue)

		_, _, err = s.ConsumeBelow(ctx, key, 10, time.Minute)
		assert.ErrorIs(t, err, quota.ErrInvalidCounterValue)
	})

	t.Run("consume below rejects values that are not plain decimals", func(t *testing.T) {
		for _, raw := range []string{"0x10", "1.5", "1e3", " 5 ", "-3"} {
			key := testKey("malformed")

			client.Set(ctx, key, raw, time.Minute)

			count, consumed, err := s.ConsumeBelow(ctx, key, 10, time.Minute)

			require.ErrorIs(t, err, quota.ErrInvalidCounterValue, raw)
			assert.False(t, consumed, raw)
			assert.Zero(t, count, raw)

			stored, _ := client.Get(ctx, key).Result()
			assert.Equal(t, raw, stored, "malformed counters are left untouched")

			client.Del(ctx, key)
		}
	})

	t.Run("consume below caps concurrent increments", func(t *testing.T) {
		key := testKey("capped")
		defer client.Del(ctx, key)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			admitted int
		)

		for range 30 {
			wg.Go(func() {
				_, consumed, err := s.ConsumeBelow(ctx, key, 5, time.Minute)
				if err == nil && consumed {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			})
		}

		wg.Wait()

		count, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 5, admitted)
		assert.Equal(t, int64(5), count)
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Get(cancelled, testKey("cancel"))

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("trackers on separate clients share the counter", func(t *testing.T) {
		key := testKey("shared")
		defer client.Del(ctx, key)

		other := redis.NewClient(&redis.Options{Addr: getRedisAddr()})
		defer other.Close()

		now := time.Now()
		trackerA, _ := quota.NewTracker(s, quota.WithLimit(1))
		trackerB, _ := quota.NewTracker(store.NewRedisCounterStore(other), quota.WithLimit(1))

		dec, err := trackerA.CheckAndConsume(ctx, key, now)
		require.NoError(t, err)
		assert.True(t, dec.Allowed)

		dec, err = trackerB.CheckAndConsume(ctx, key, now)
		require.NoError(t, err)
		assert.False(t, dec.Allowed, "instance B should see the call recorded by instance A")
	})
}
