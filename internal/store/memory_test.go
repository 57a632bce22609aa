package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/ticker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySnapshotStore_SaveLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemorySnapshotStore()
	userID := uuid.New()

	_, err := s.Load(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	snap := ticker.Snapshot{ElapsedMillis: 125750, Running: true}
	require.NoError(t, s.Save(ctx, userID, snap))

	got, err := s.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	replaced := ticker.Snapshot{ElapsedMillis: 10}
	require.NoError(t, s.Save(ctx, userID, replaced))
	got, err = s.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, replaced, got)
}

func TestMemorySnapshotStore_Isolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemorySnapshotStore()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, s.Save(ctx, a, ticker.Snapshot{ElapsedMillis: 1}))
	_, err := s.Load(ctx, b)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySnapshotStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemorySnapshotStore()
	userID := uuid.New()

	require.NoError(t, s.Delete(ctx, userID), "deleting a missing snapshot is not an error")
	require.NoError(t, s.Save(ctx, userID, ticker.Snapshot{ElapsedMillis: 5}))
	require.NoError(t, s.Delete(ctx, userID))

	_, err := s.Load(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySnapshotStore_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemorySnapshotStore()

	assert.ErrorIs(t, s.Save(ctx, uuid.New(), ticker.Snapshot{}), context.Canceled)
	_, err := s.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}
