package container

import (
	"context"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/timequota/internal/health"
	"github.com/serroba/timequota/internal/quota"
	"github.com/serroba/timequota/internal/store"
	"go.uber.org/zap"
)

// CounterStore is a quota store that can report its own health.
type CounterStore interface {
	quota.Store
	health.Checker
}

// CounterStorePackage provides the counter store selected by Options.Store.
func CounterStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (CounterStore, error) {
		options := do.MustInvoke[*Options](i)

		switch options.Store {
		case StoreRedis:
			client := do.MustInvoke[*RedisClient](i)

			return store.NewRedisCounterStore(client.Client), nil
		case StorePostgres:
			pool, err := do.Invoke[*PostgresPool](i)
			if err != nil {
				return nil, err
			}

			counters := store.NewPostgresCounterStore(pool.Pool)
			if err := counters.EnsureSchema(context.Background()); err != nil {
				return nil, fmt.Errorf("failed to create counter schema: %w", err)
			}

			return counters, nil
		case StoreMemory:
			return store.NewMemoryCounterStore(), nil
		default:
			return nil, fmt.Errorf("unknown counter store %q", options.Store)
		}
	})
}

// QuotaPackage provides the tracker and exposes it as the quota.Limiter.
func QuotaPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*quota.Tracker, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		counters := do.MustInvoke[CounterStore](i)

		opts := append(options.trackerOptions(), quota.WithLogger(logger))

		return quota.NewTracker(counters, opts...)
	})

	do.Provide(injector, func(i *do.Injector) (quota.Limiter, error) {
		tracker, err := do.Invoke[*quota.Tracker](i)
		if err != nil {
			return nil, err
		}

		return tracker, nil
	})
}
