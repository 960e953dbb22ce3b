package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/serroba/timequota/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	t.Run("maps levels and fields", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := messaging.NewZapLogger(zap.New(core))

		logger.Info("subscribed", watermill.LogFields{"topic": "quota.decided"})
		logger.Debug("polling", nil)
		logger.Trace("raw message", nil)
		logger.Error("ack failed", errors.New("boom"), watermill.LogFields{"message_id": "abc"})

		entries := logs.All()
		require.Len(t, entries, 4)

		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "quota.decided", entries[0].ContextMap()["topic"])
		assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
		assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
		assert.Equal(t, "boom", entries[3].ContextMap()["error"])
		assert.Equal(t, "abc", entries[3].ContextMap()["message_id"])
	})

	t.Run("with carries fields forward", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		logger := messaging.NewZapLogger(zap.New(core)).With(watermill.LogFields{"consumer_group": "analytics"})

		logger.Info("started", nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "analytics", logs.All()[0].ContextMap()["consumer_group"])
	})
}
