package session

import "errors"

var (
	// ErrSessionNotFound is returned when the user has no open session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrManagerClosed is returned by Open after CloseAll.
	ErrManagerClosed = errors.New("session manager closed")
)
