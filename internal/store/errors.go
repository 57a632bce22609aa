package store

import "errors"

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when no snapshot exists for the requested user.
	ErrNotFound = errors.New("snapshot not found")

	// ErrInvalidEntity is returned when a snapshot cannot be encoded or decoded.
	// Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid snapshot")
)
