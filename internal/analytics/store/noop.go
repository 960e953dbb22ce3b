package store

import (
	"context"

	"github.com/serroba/timequota/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveAdmission(_ context.Context, event *analytics.AdmissionEvent) error {
	n.logger.Info("admission event received",
		zap.String("requestId", event.RequestID),
		zap.String("key", event.Key),
		zap.Bool("allowed", event.Allowed),
		zap.Int64("count", event.Count),
		zap.Int64("limit", event.Limit),
		zap.Time("decidedAt", event.DecidedAt),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
