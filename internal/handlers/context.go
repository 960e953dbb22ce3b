package handlers

import (
	"context"

	"github.com/serroba/timequota/internal/quota"
)

type (
	requestMetaKey struct{}
	decisionKey    struct{}
)

// RequestMeta holds HTTP request metadata for logging and analytics.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// ContextWithDecision adds the admission decision for the current request to context.
func ContextWithDecision(ctx context.Context, dec quota.Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, dec)
}

// DecisionFromContext extracts the admission decision, reporting whether one was set.
func DecisionFromContext(ctx context.Context) (quota.Decision, bool) {
	dec, ok := ctx.Value(decisionKey{}).(quota.Decision)

	return dec, ok
}
