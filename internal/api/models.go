package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/probe"
	"github.com/phrazzld/tickprobe/internal/ticker"
)

// MaxProbeTasks bounds the task count of a single run.
const MaxProbeTasks = 10000

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the token expires
	ExpiresAt string `json:"expires_at"`
}

// TickerResponse is the display form of a ticker state.
type TickerResponse struct {
	ElapsedMillis uint64 `json:"elapsed_ms"`
	Display       string `json:"display"`
	Running       bool   `json:"running"`
}

func newTickerResponse(s ticker.State) TickerResponse {
	return TickerResponse{
		ElapsedMillis: uint64(s.Elapsed.Milliseconds()),
		Display:       s.Display(),
		Running:       s.Running,
	}
}

// ProbeRunRequest defines the payload for launching a probe run.
type ProbeRunRequest struct {
	Count int `json:"count" validate:"gt=0,lte=10000"`
}

// ProbeResultResponse is the display form of a completed run's result.
type ProbeResultResponse struct {
	// MeanLatencyMillis is omitted when no task succeeded
	MeanLatencyMillis *float64 `json:"mean_latency_ms,omitempty"`
	Display           string   `json:"display"`
	NoData            bool     `json:"no_data"`
	Succeeded         int      `json:"succeeded"`
	Failed            int      `json:"failed"`
}

// ProbeStateResponse is the display form of a run state.
type ProbeStateResponse struct {
	RunID     *uuid.UUID           `json:"run_id,omitempty"`
	Phase     probe.Phase          `json:"phase"`
	Requested int                  `json:"requested,omitempty"`
	Result    *ProbeResultResponse `json:"result,omitempty"`
}

func newProbeStateResponse(s probe.RunState) ProbeStateResponse {
	resp := ProbeStateResponse{
		Phase:     s.Phase,
		Requested: s.Requested,
	}
	if s.RunID != uuid.Nil {
		id := s.RunID
		resp.RunID = &id
	}
	if s.Result != nil {
		r := &ProbeResultResponse{
			Display:   s.Result.String(),
			NoData:    s.Result.NoData,
			Succeeded: s.Result.Succeeded,
			Failed:    s.Result.Failed,
		}
		if mean, ok := s.Result.Mean(); ok {
			r.MeanLatencyMillis = &mean
		}
		resp.Result = r
	}
	return resp
}

func formatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
