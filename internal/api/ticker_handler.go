package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tickprobe/internal/api/shared"
	"github.com/phrazzld/tickprobe/internal/platform/logger"
)

// TickerHandler exposes the authenticated user's ticker.
type TickerHandler struct {
	sessions SessionManager
	logger   *slog.Logger
}

// NewTickerHandler creates a new TickerHandler.
func NewTickerHandler(sessions SessionManager, logger *slog.Logger) *TickerHandler {
	return &TickerHandler{
		sessions: sessions,
		logger:   logger.With("component", "ticker_handler"),
	}
}

// Get handles GET /api/ticker.
func (h *TickerHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTickerResponse(s.Ticker.Value()))
}

// Start handles POST /api/ticker/start. Starting a running ticker is a no-op.
func (h *TickerHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}

	s.Ticker.Start()
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("ticker start requested", "user_id", s.UserID)

	shared.RespondWithJSON(w, r, http.StatusOK, newTickerResponse(s.Ticker.Value()))
}

// Stop handles POST /api/ticker/stop. Stopping a stopped ticker is a no-op.
func (h *TickerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}

	s.Ticker.Stop()
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("ticker stop requested", "user_id", s.UserID)

	shared.RespondWithJSON(w, r, http.StatusOK, newTickerResponse(s.Ticker.Value()))
}

// Stream handles GET /api/ticker/stream, a websocket carrying the current
// ticker state and every later change.
func (h *TickerHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFromRequest(w, r, h.sessions)
	if !ok {
		return
	}
	streamStates(w, r, s.Ticker.Subscribe, newTickerResponse)
}
