package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/timequota/internal/analytics"
)

const admissionSchema = `
	CREATE TABLE IF NOT EXISTS quota_admissions (
		id          BIGSERIAL PRIMARY KEY,
		request_id  TEXT NOT NULL,
		key         TEXT NOT NULL,
		allowed     BOOLEAN NOT NULL,
		count       BIGINT NOT NULL,
		quota_limit BIGINT NOT NULL,
		decided_at  TIMESTAMPTZ NOT NULL,
		client_ip   TEXT,
		user_agent  TEXT
	)
`

// Postgres persists admission events to PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the admissions table when it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, admissionSchema)

	return err
}

func (p *Postgres) SaveAdmission(ctx context.Context, event *analytics.AdmissionEvent) error {
	query := `
		INSERT INTO quota_admissions
			(request_id, key, allowed, count, quota_limit, decided_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		event.RequestID,
		event.Key,
		event.Allowed,
		event.Count,
		event.Limit,
		event.DecidedAt,
		nullableString(event.ClientIP),
		nullableString(event.UserAgent),
	)

	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
