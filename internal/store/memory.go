package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/ticker"
)

// MemorySnapshotStore keeps JSON-encoded snapshots in process memory.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID][]byte
}

var _ SnapshotStore = (*MemorySnapshotStore)(nil)

// NewMemorySnapshotStore creates an empty store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{items: make(map[uuid.UUID][]byte)}
}

// Save implements SnapshotStore.
func (s *MemorySnapshotStore) Save(ctx context.Context, userID uuid.UUID, snap ticker.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	s.items[userID] = data
	s.mu.Unlock()
	return nil
}

// Load implements SnapshotStore.
func (s *MemorySnapshotStore) Load(ctx context.Context, userID uuid.UUID) (ticker.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return ticker.Snapshot{}, err
	}

	s.mu.RLock()
	data, ok := s.items[userID]
	s.mu.RUnlock()
	if !ok {
		return ticker.Snapshot{}, ErrNotFound
	}

	var snap ticker.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ticker.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}
	return snap, nil
}

// Delete implements SnapshotStore.
func (s *MemorySnapshotStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.items, userID)
	s.mu.Unlock()
	return nil
}
