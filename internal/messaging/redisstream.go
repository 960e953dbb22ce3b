package messaging

import (
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisStreamPublisher creates a watermill publisher writing to Redis streams.
func NewRedisStreamPublisher(client *redis.Client, logger *zap.Logger) (message.Publisher, error) {
	return redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: client},
		NewZapLogger(logger),
	)
}

// NewRedisStreamSubscriber creates a watermill subscriber reading Redis streams as part of
// the given consumer group.
func NewRedisStreamSubscriber(client *redis.Client, group string, logger *zap.Logger) (message.Subscriber, error) {
	return redisstream.NewSubscriber(
		redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: group,
		},
		NewZapLogger(logger),
	)
}
