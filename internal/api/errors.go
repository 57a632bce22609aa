package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tickprobe/internal/probe"
	"github.com/phrazzld/tickprobe/internal/service/auth"
	"github.com/phrazzld/tickprobe/internal/service/session"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, session.ErrSessionNotFound):
		return http.StatusUnauthorized

	// Bad request errors
	case errors.Is(err, probe.ErrInvalidTaskCount):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, probe.ErrProbeClosed):
		return http.StatusConflict

	// Shutting down
	case errors.Is(err, session.ErrManagerClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, session.ErrSessionNotFound):
		return "No active session, log in again"

	case errors.Is(err, probe.ErrInvalidTaskCount):
		return "Task count must be positive"

	case errors.Is(err, probe.ErrProbeClosed):
		return "Session is closing"

	case errors.Is(err, session.ErrManagerClosed):
		return "Server is shutting down"

	default:
		return "An unexpected error occurred"
	}
}
