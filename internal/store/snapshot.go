package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/ticker"
)

// SnapshotStore persists ticker snapshots keyed by user.
type SnapshotStore interface {
	// Save stores the snapshot for the user, replacing any previous one.
	Save(ctx context.Context, userID uuid.UUID, snap ticker.Snapshot) error

	// Load returns the saved snapshot for the user.
	// Returns ErrNotFound if nothing has been saved.
	Load(ctx context.Context, userID uuid.UUID) (ticker.Snapshot, error)

	// Delete removes the user's snapshot. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, userID uuid.UUID) error
}
