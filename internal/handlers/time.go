package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// TimeLayout formats a time of day with trailing zero fractions dropped.
const TimeLayout = "15:04:05.999999999"

// Rate limit keys of the time endpoints. Each one is an independent quota bucket.
const (
	KeyLocalTime = "EXAMPLE::TIME"
	KeyUTCTime   = "EXAMPLE::UTC"
)

// TimeHandler serves the current time of day behind the quota gate.
type TimeHandler struct {
	now   func() time.Time
	local *time.Location
}

// NewTimeHandler creates a time handler. local is the zone used by the local time endpoint.
func NewTimeHandler(now func() time.Time, local *time.Location) *TimeHandler {
	if local == nil {
		local = time.Local
	}

	return &TimeHandler{
		now:   now,
		local: local,
	}
}

// Local returns the current local time of day.
func (h *TimeHandler) Local(ctx context.Context, _ *struct{}) (*TimeResponse, error) {
	return h.respond(ctx, h.now().In(h.local))
}

// UTC returns the current UTC time of day.
func (h *TimeHandler) UTC(ctx context.Context, _ *struct{}) (*TimeResponse, error) {
	return h.respond(ctx, h.now().UTC())
}

func (h *TimeHandler) respond(ctx context.Context, now time.Time) (*TimeResponse, error) {
	dec, ok := DecisionFromContext(ctx)
	if !ok {
		return nil, huma.Error500InternalServerError("request was not checked against its quota")
	}

	resp := &TimeResponse{}
	resp.Body.Time = now.Format(TimeLayout)
	resp.Body.Message = dec.Message
	resp.Body.Count = dec.Count
	resp.Body.Limit = dec.Limit

	return resp, nil
}
