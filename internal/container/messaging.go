package container

import (
	"context"

	"github.com/samber/do"
	"github.com/serroba/timequota/internal/analytics"
	analyticsstore "github.com/serroba/timequota/internal/analytics/store"
	"github.com/serroba/timequota/internal/messaging"
	"go.uber.org/zap"
)

// ConsumerGroupName is the Redis streams consumer group used by the analytics consumer.
const ConsumerGroupName = "quota-analytics"

// PublisherGroupPackage provides the admission event publisher. With analytics
// disabled, events are discarded and Redis streams are never touched.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := messaging.NewRedisStreamPublisher(client.Client, logger)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.AdmissionEvent], error) {
		options := do.MustInvoke[*Options](i)
		if !options.Analytics {
			return messaging.DiscardPublish[analytics.AdmissionEvent](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[analytics.AdmissionEvent](group.Publisher(), analytics.TopicAdmission), nil
	})
}

// AnalyticsStorePackage provides the admission store: Postgres when a database URL is
// configured, otherwise a store that only logs.
func AnalyticsStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.DatabaseURL == "" {
			logger.Info("no database configured, admission events are logged only")

			return analyticsstore.NewNoop(logger), nil
		}

		pool, err := do.Invoke[*PostgresPool](i)
		if err != nil {
			return nil, err
		}

		admissions := analyticsstore.NewPostgres(pool.Pool)
		if err := admissions.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}

		return admissions, nil
	})
}

// ConsumerGroupPackage provides the consumer group persisting admission events.
func ConsumerGroupPackage(injector *do.Injector) {
	AnalyticsStorePackage(injector)

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*RedisClient](i)
		logger := do.MustInvoke[*zap.Logger](i)
		admissions := do.MustInvoke[analytics.Store](i)

		subscriber, err := messaging.NewRedisStreamSubscriber(client.Client, ConsumerGroupName, logger)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer[analytics.AdmissionEvent](
			subscriber, analytics.TopicAdmission, admissions.SaveAdmission, logger,
		))

		return group, nil
	})
}

// Consumer registers everything the analytics consumer needs.
func Consumer(injector *do.Injector, options *Options) {
	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	ConsumerGroupPackage(injector)
}
