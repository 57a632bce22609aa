package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tickprobe/internal/api/shared"
	"github.com/phrazzld/tickprobe/internal/platform/logger"
	"github.com/phrazzld/tickprobe/internal/service/auth"
	"github.com/phrazzld/tickprobe/internal/service/session"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	checker    auth.CredentialChecker
	jwtService auth.JWTService
	sessions   SessionManager
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	checker auth.CredentialChecker,
	jwtService auth.JWTService,
	sessions SessionManager,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		checker:    checker,
		jwtService: jwtService,
		sessions:   sessions,
		logger:     logger.With("component", "auth_handler"),
	}
}

// Login handles POST /api/auth/login. On success the user's session is opened,
// restoring any saved ticker state.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req LoginRequest
	if msg, err := shared.DecodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msg, err)
		return
	}

	user, err := h.checker.Check(ctx, auth.Credentials{Login: req.Login, Password: req.Password})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if _, err := h.sessions.Open(ctx, user.ID); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	log.Info("user logged in", "user_id", user.ID)

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:    user.ID,
		Name:      user.Name,
		Token:     token,
		ExpiresAt: formatExpiry(expiresAt),
	})
}

// Logout handles POST /api/auth/logout. The user's ticker state is saved and
// any outstanding probe run is cancelled. Logging out twice is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	userID, ok := shared.UserIDFromContext(ctx)
	if !ok {
		respondWithServiceError(w, r, auth.ErrMissingToken)
		return
	}

	if err := h.sessions.Close(ctx, userID); err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			respondWithServiceError(w, r, err)
			return
		}
		log.Debug("logout without an open session", "user_id", userID)
	} else {
		log.Info("user logged out", "user_id", userID)
	}

	w.WriteHeader(http.StatusNoContent)
}
