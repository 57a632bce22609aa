package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/api/shared"
	"github.com/phrazzld/tickprobe/internal/service/auth"
	"github.com/phrazzld/tickprobe/internal/service/session"
)

// SessionManager is the subset of session.Manager the handlers use.
type SessionManager interface {
	Open(ctx context.Context, userID uuid.UUID) (*session.Session, error)
	Get(userID uuid.UUID) (*session.Session, error)
	Close(ctx context.Context, userID uuid.UUID) error
}

// sessionFromRequest returns the live session of the authenticated user. It
// writes an error response and returns false when there is none.
func sessionFromRequest(w http.ResponseWriter, r *http.Request, sessions SessionManager) (*session.Session, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		respondWithServiceError(w, r, auth.ErrMissingToken)
		return nil, false
	}

	s, err := sessions.Get(userID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return nil, false
	}
	return s, true
}

// respondWithServiceError maps err to a status and safe message and logs the
// redacted details.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
