package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/timequota/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

type publishTestEvent struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type ctxKey struct{}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes event successfully", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[publishTestEvent](mock, "quota.decided")

		ctx := context.WithValue(context.Background(), ctxKey{}, "request-1")
		event := &publishTestEvent{Key: "EXAMPLE::TIME", Count: 3}

		err := publish(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, "quota.decided", mock.topic)
		require.Len(t, mock.messages, 1)
		assert.JSONEq(t, `{"key":"EXAMPLE::TIME","count":3}`, string(mock.messages[0].Payload))
		assert.NotEmpty(t, mock.messages[0].UUID)
		assert.Equal(t, "request-1", mock.messages[0].Context().Value(ctxKey{}))
	})

	t.Run("returns error when publish fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[publishTestEvent](mock, "quota.decided")

		err := publish(context.Background(), &publishTestEvent{Key: "EXAMPLE::UTC"})

		assert.Error(t, err)
	})
}

func TestDiscardPublish(t *testing.T) {
	publish := messaging.DiscardPublish[publishTestEvent]()

	assert.NoError(t, publish(context.Background(), &publishTestEvent{Key: "EXAMPLE::TIME"}))
}

func TestPublisherGroup(t *testing.T) {
	t.Run("returns underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shuts down successfully", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		err := group.Shutdown()

		require.NoError(t, err)
	})

	t.Run("returns error when close fails", func(t *testing.T) {
		mock := &mockPublisher{closeErr: errors.New("close error")}
		group := messaging.NewPublisherGroup(mock)

		err := group.Shutdown()

		assert.Error(t, err)
	})
}
