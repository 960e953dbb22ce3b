package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/timequota/internal/quota"
)

// consumeBelowScript increments KEYS[1] and sets its expiry to ARGV[2] seconds only when
// the current value is below ARGV[1]. It returns {previous value, 1 if incremented}.
// Stored values must be plain decimal digits, the same rule parseCounter applies.
var consumeBelowScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
local current = 0
if raw then
  if not string.match(raw, "^%d+$") then
    return redis.error_reply("counter is not an integer")
  end
  current = tonumber(raw)
end
if current >= tonumber(ARGV[1]) then
  return {current, 0}
end
redis.call("INCRBY", KEYS[1], 1)
redis.call("EXPIRE", KEYS[1], ARGV[2])
return {current, 1}
`)

var errUnexpectedScriptReply = errors.New("unexpected consume script reply")

// RedisCounterStore is a Redis implementation of quota.CappedStore.
// Counters are plain string keys holding decimal integers with a TTL.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a new Redis-backed counter store.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (r *RedisCounterStore) Get(ctx context.Context, key string) (int64, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, err
	}

	return parseCounter(key, raw)
}

// Consume runs INCRBY and EXPIRE inside MULTI/EXEC.
func (r *RedisCounterStore) Consume(ctx context.Context, key string, ttl time.Duration) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, key, 1)
		pipe.Expire(ctx, key, ttl)

		return nil
	})

	return notIntegerError(key, err)
}

func (r *RedisCounterStore) ConsumeBelow(
	ctx context.Context, key string, limit int64, ttl time.Duration,
) (int64, bool, error) {
	reply, err := consumeBelowScript.Run(ctx, r.client, []string{key}, limit, int64(ttl/time.Second)).Result()
	if err != nil {
		return 0, false, notIntegerError(key, err)
	}

	return parseScriptReply(reply)
}

// parseScriptReply decodes the {previous value, consumed flag} pair returned by
// consumeBelowScript.
func parseScriptReply(reply any) (int64, bool, error) {
	values, ok := reply.([]any)
	if !ok || len(values) != 2 {
		return 0, false, fmt.Errorf("%w: %v", errUnexpectedScriptReply, reply)
	}

	current, ok := values[0].(int64)
	if !ok {
		return 0, false, fmt.Errorf("%w: %v", errUnexpectedScriptReply, reply)
	}

	consumed, ok := values[1].(int64)
	if !ok {
		return 0, false, fmt.Errorf("%w: %v", errUnexpectedScriptReply, reply)
	}

	return current, consumed == 1, nil
}

// Ping checks Redis connectivity.
func (r *RedisCounterStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Compile-time check.
var _ quota.CappedStore = (*RedisCounterStore)(nil)
