package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/timequota/internal/quota"
)

const counterSchema = `
	CREATE TABLE IF NOT EXISTS quota_counters (
		key        TEXT PRIMARY KEY,
		count      BIGINT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)
`

// upsertCounter increments a live counter or restarts an expired one, moving its expiry
// to $2 seconds from now. $3 caps the increment; rows at or over it are left untouched.
const upsertCounter = `
	INSERT INTO quota_counters (key, count, expires_at)
	VALUES ($1, 1, now() + make_interval(secs => $2))
	ON CONFLICT (key) DO UPDATE SET
		count = CASE WHEN quota_counters.expires_at <= now() THEN 1 ELSE quota_counters.count + 1 END,
		expires_at = EXCLUDED.expires_at
	WHERE quota_counters.expires_at <= now() OR quota_counters.count < $3
	RETURNING count
`

const selectCounter = `
	SELECT count
	FROM quota_counters
	WHERE key = $1 AND expires_at > now()
`

// PostgresCounterStore is a PostgreSQL implementation of quota.CappedStore.
// Expiry is evaluated against the database clock; expired rows read as absent.
type PostgresCounterStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCounterStore creates a new PostgreSQL-backed counter store.
func NewPostgresCounterStore(pool *pgxpool.Pool) *PostgresCounterStore {
	return &PostgresCounterStore{pool: pool}
}

// EnsureSchema creates the counters table when it does not exist.
func (p *PostgresCounterStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, counterSchema)

	return err
}

func (p *PostgresCounterStore) Get(ctx context.Context, key string) (int64, error) {
	return getCounter(ctx, p.pool, key)
}

// Consume increments the counter in a single upsert statement.
func (p *PostgresCounterStore) Consume(ctx context.Context, key string, ttl time.Duration) error {
	var count int64

	return p.pool.QueryRow(ctx, upsertCounter, key, ttl.Seconds(), int64(math.MaxInt64)).Scan(&count)
}

func (p *PostgresCounterStore) ConsumeBelow(
	ctx context.Context, key string, limit int64, ttl time.Duration,
) (int64, bool, error) {
	var (
		current  int64
		consumed bool
	)

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		var count int64

		err := tx.QueryRow(ctx, upsertCounter, key, ttl.Seconds(), limit).Scan(&count)
		if err == nil {
			current, consumed = count-1, true

			return nil
		}

		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		current, err = getCounter(ctx, tx, key)

		return err
	})
	if err != nil {
		return 0, false, err
	}

	return current, consumed, nil
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresCounterStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getCounter(ctx context.Context, q rowQuerier, key string) (int64, error) {
	var count int64

	err := q.QueryRow(ctx, selectCounter, key).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, err
	}

	if count < 0 {
		return 0, fmt.Errorf("%w: key %q holds %d", quota.ErrInvalidCounterValue, key, count)
	}

	return count, nil
}

// Compile-time check.
var _ quota.CappedStore = (*PostgresCounterStore)(nil)
