package container

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

var errNoDatabaseURL = errors.New("database url is not configured")

// RedisClient owns the shared Redis connection.
type RedisClient struct {
	*redis.Client
}

// Shutdown closes the connection.
func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// PostgresPool owns the shared Postgres pool.
type PostgresPool struct {
	*pgxpool.Pool
}

// Shutdown closes the pool.
func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		options := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		})}, nil
	})
}

// PostgresPackage provides the Postgres pool. Invoking it without a database URL fails.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresPool, error) {
		options := do.MustInvoke[*Options](i)
		if options.DatabaseURL == "" {
			return nil, errNoDatabaseURL
		}

		pool, err := pgxpool.New(context.Background(), options.DatabaseURL)
		if err != nil {
			return nil, err
		}

		return &PostgresPool{Pool: pool}, nil
	})
}
