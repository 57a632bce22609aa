package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/metrics"
	"github.com/phrazzld/tickprobe/internal/probe"
	"github.com/phrazzld/tickprobe/internal/store"
	"github.com/phrazzld/tickprobe/internal/ticker"
)

// Session is one user's live ticker and probe.
type Session struct {
	UserID   uuid.UUID
	Ticker   *ticker.Ticker
	Probe    *probe.Probe
	OpenedAt time.Time
}

// Manager creates, tracks and tears down sessions.
type Manager struct {
	tickerCfg ticker.Config
	probeCfg  probe.Config
	snapshots store.SnapshotStore
	logger    *slog.Logger
	metrics   *metrics.Collector

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

// NewManager creates a session manager. The probe configuration is validated
// up front so Open only fails on store errors.
func NewManager(
	tickerCfg ticker.Config,
	probeCfg probe.Config,
	snapshots store.SnapshotStore,
	logger *slog.Logger,
	m *metrics.Collector,
) (*Manager, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store cannot be nil")
	}
	if err := probeCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid probe configuration: %w", err)
	}

	return &Manager{
		tickerCfg: tickerCfg,
		probeCfg:  probeCfg,
		snapshots: snapshots,
		logger:    logger.With("component", "session_manager"),
		metrics:   m,
		sessions:  make(map[uuid.UUID]*Session),
	}, nil
}

// Open returns the user's live session, creating it if needed. A new session
// restores the user's saved ticker snapshot and resumes ticking if the
// snapshot was running.
func (m *Manager) Open(ctx context.Context, userID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}

	log := m.logger.With("user_id", userID)

	snap, err := m.snapshots.Load(ctx, userID)
	restored := err == nil
	switch {
	case err == nil, errors.Is(err, store.ErrNotFound):
	case errors.Is(err, store.ErrInvalidEntity):
		// An unreadable snapshot is dropped and the session starts fresh.
		log.Warn("discarding unreadable ticker snapshot", "error", err)
		if err := m.snapshots.Delete(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to delete ticker snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load ticker snapshot: %w", err)
	}

	t := ticker.New(m.tickerCfg, log, m.metrics)
	p, err := probe.New(m.probeCfg, log, m.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create probe: %w", err)
	}

	if restored {
		t.Restore(snap)
		if snap.Running {
			t.Start()
		}
	}

	s := &Session{
		UserID:   userID,
		Ticker:   t,
		Probe:    p,
		OpenedAt: time.Now(),
	}
	m.sessions[userID] = s
	m.metrics.SessionOpened()

	log.Info("session opened",
		"restored", restored,
		"elapsed", t.Value().Display(),
		"running", t.Running())
	return s, nil
}

// Get returns the user's live session.
func (m *Manager) Get(userID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close saves the user's ticker snapshot, stops the ticker and cancels any
// outstanding probe run. The session is removed even if saving fails.
func (m *Manager) Close(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, userID)

	// Held across the save: an Open for the same user must load this snapshot,
	// not the one it replaces.
	return m.teardown(ctx, s)
}

// CloseAll closes every open session and rejects further opens.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := m.teardown(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) teardown(ctx context.Context, s *Session) error {
	// Save before stopping so the running flag survives the logout.
	snap := s.Ticker.Save()
	s.Ticker.Stop()
	s.Probe.Close()
	m.metrics.SessionClosed()

	log := m.logger.With("user_id", s.UserID)

	if run := s.Probe.Current(); run != nil {
		select {
		case <-run.Done():
		case <-ctx.Done():
			log.Warn("probe run still settling at close", "run_id", run.ID())
		}
	}
	if err := m.snapshots.Save(ctx, s.UserID, snap); err != nil {
		log.Error("failed to save ticker snapshot", "error", err)
		return fmt.Errorf("failed to save ticker snapshot: %w", err)
	}

	log.Info("session closed",
		"elapsed", ticker.Format(snap.Elapsed()),
		"running", snap.Running)
	return nil
}
