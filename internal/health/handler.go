package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StoreHealthy   = "healthy"
	StoreUnhealthy = "unhealthy"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	store   Checker
	timeout time.Duration
}

// NewHandler creates a health handler probing the counter store. A zero timeout
// leaves the probe bound only by the request context.
func NewHandler(store Checker, timeout time.Duration) *Handler {
	return &Handler{store: store, timeout: timeout}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status string `doc:"ok, or degraded when a dependency fails" example:"ok"      json:"status"`
		Store  string `doc:"Counter store connectivity"              example:"healthy" json:"store"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp := &Response{}
	resp.Body.Status = StatusOK

	if err := h.store.Ping(ctx); err != nil {
		resp.Body.Store = StoreUnhealthy
		resp.Body.Status = StatusDegraded
	} else {
		resp.Body.Store = StoreHealthy
	}

	return resp, nil
}

// RegisterRoutes registers health check routes. The health route carries no quota.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Check)
}
