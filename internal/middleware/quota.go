package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/timequota/internal/analytics"
	"github.com/serroba/timequota/internal/handlers"
	"github.com/serroba/timequota/internal/messaging"
	"github.com/serroba/timequota/internal/quota"
	"go.uber.org/zap"
)

// Rate limit response headers.
const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderRetryAfter = "Retry-After"
)

// QuotaGate returns a Huma middleware that checks every operation carrying a
// quota.EndpointConfig against its key. Admitted requests reach the handler with the
// decision in their context; rejected ones get 429 and store failures 503.
//
// Operations without a quota configuration pass through untouched.
func QuotaGate(
	api huma.API,
	limiter quota.Limiter,
	now func() time.Time,
	publish messaging.Publish[analytics.AdmissionEvent],
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := endpointConfig(ctx)
		if cfg == nil || cfg.Key == "" {
			next(ctx)

			return
		}

		decidedAt := now()

		dec, err := limiter.CheckAndConsume(ctx.Context(), cfg.Key, decidedAt)
		if err != nil {
			handleQuotaError(api, ctx, cfg.Key, err, logger)

			return
		}

		publishAdmission(ctx, publish, dec, decidedAt, logger)

		ctx.SetHeader(HeaderLimit, strconv.FormatInt(dec.Limit, 10))
		ctx.SetHeader(HeaderRemaining, strconv.FormatInt(dec.Remaining(), 10))

		if !dec.Allowed {
			ctx.SetHeader(HeaderRetryAfter, dec.RetryAfterSeconds())
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, dec.Message)

			return
		}

		next(huma.WithContext(ctx, handlers.ContextWithDecision(ctx.Context(), dec)))
	}
}

// endpointConfig extracts the quota configuration from operation metadata, if present.
func endpointConfig(ctx huma.Context) *quota.EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[quota.MetadataKey].(quota.EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}

// handleQuotaError maps tracker failures to responses. The request is neither admitted
// nor counted as rejected.
func handleQuotaError(api huma.API, ctx huma.Context, key string, err error, logger *zap.Logger) {
	logger.Error("quota check failed",
		zap.String("key", key),
		zap.String("request_id", handlers.RequestMetaFromContext(ctx.Context()).RequestID),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, quota.ErrStoreUnavailable), errors.Is(err, quota.ErrTimeout):
		_ = huma.WriteErr(api, ctx, http.StatusServiceUnavailable, "rate limit store unavailable", err)
	default:
		_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)
	}
}

// publishAdmission emits an admission event. Publishing failures never affect the response.
func publishAdmission(
	ctx huma.Context,
	publish messaging.Publish[analytics.AdmissionEvent],
	dec quota.Decision,
	decidedAt time.Time,
	logger *zap.Logger,
) {
	meta := handlers.RequestMetaFromContext(ctx.Context())
	event := &analytics.AdmissionEvent{
		RequestID: meta.RequestID,
		Key:       dec.Key,
		Allowed:   dec.Allowed,
		Count:     dec.Count,
		Limit:     dec.Limit,
		DecidedAt: decidedAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := publish(ctx.Context(), event); err != nil {
		logger.Error("failed to publish admission event",
			zap.String("key", dec.Key),
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)
	}
}
