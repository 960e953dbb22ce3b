package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/timequota/internal/quota"
)

// RegisterRoutes registers the time routes, each bound to its own quota key.
func RegisterRoutes(api huma.API, timeHandler *TimeHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-local-time",
		Method:      http.MethodGet,
		Path:        "/time",
		Summary:     "Get local time",
		Description: "Returns the server's local time of day. Limited per minute across all instances.",
		Tags:        []string{"Time"},
		Errors:      []int{http.StatusTooManyRequests, http.StatusServiceUnavailable},
		Metadata: map[string]any{
			quota.MetadataKey: quota.EndpointConfig{Key: KeyLocalTime},
		},
	}, timeHandler.Local)

	huma.Register(api, huma.Operation{
		OperationID: "get-utc-time",
		Method:      http.MethodGet,
		Path:        "/time/utc",
		Summary:     "Get UTC time",
		Description: "Returns the current UTC time of day. Limited per minute across all instances.",
		Tags:        []string{"Time"},
		Errors:      []int{http.StatusTooManyRequests, http.StatusServiceUnavailable},
		Metadata: map[string]any{
			quota.MetadataKey: quota.EndpointConfig{Key: KeyUTCTime},
		},
	}, timeHandler.UTC)
}
