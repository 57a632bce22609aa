package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tickprobe/internal/api/shared"
	"github.com/phrazzld/tickprobe/internal/platform/logger"
	"github.com/phrazzld/tickprobe/internal/probe"
)

// ProbeHandler exposes the authenticated user's probe.
type ProbeHandler struct {
	sessions SessionManager
	logger   *slog.Logger
}

// NewProbeHandler creates a new ProbeHandler.
func NewProbeHandler(sessions SessionManager, logger *slog.Logger) *ProbeHandler {
	return &ProbeHandler{
		sessions: sessions,
		logger:   logger.With("component", "probe_handler"),
	}
}

// Launch handles POST /api/probe/runs. The run executes in the background and
// supersedes any run still in flight; the response is the Running state.
func (h *ProbeHandler) Launch(w http.ResponseWriter, r *http.Request) {
	var req ProbeRunRequest
	if msg, err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msg, err)
		return
	}

	s, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}

	// The run outlives the request; it is bounded by the session instead.
	run, err := s.Probe.Run(context.WithoutCancel(r.Context()), req.Count)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("probe run launched",
		"user_id", s.UserID,
		"run_id", run.ID(),
		"task_count", req.Count)

	w.Header().Set("Location", "/api/probe")
	shared.RespondWithJSON(w, r, http.StatusAccepted, newProbeStateResponse(probe.RunState{
		RunID:     run.ID(),
		Phase:     probe.PhaseRunning,
		Requested: req.Count,
	}))
}

// Get handles GET /api/probe, the latest run state.
func (h *ProbeHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newProbeStateResponse(s.Probe.Value()))
}

// Stream handles GET /api/probe/stream, a websocket carrying the latest run
// state and every later change.
func (h *ProbeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}
	streamStates(w, r, s.Probe.Subscribe, newProbeStateResponse)
}
