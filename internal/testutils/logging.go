package testutils

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LogEntry represents a simplified log record for testing
type LogEntry map[string]interface{}

// Message returns the entry's log message.
func (e LogEntry) Message() string {
	msg, _ := e["message"].(string)
	return msg
}

// RecordingHandler is a memory-backed slog.Handler. Attributes added through
// Logger.With are kept on the entries of derived loggers. Groups are flattened.
type RecordingHandler struct {
	store *entryStore
	attrs []slog.Attr
}

type entryStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ slog.Handler = (*RecordingHandler)(nil)

// NewRecordingHandler creates an empty handler.
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{store: &entryStore{}}
}

// NewRecordingLogger returns a logger backed by a new RecordingHandler.
func NewRecordingLogger() (*slog.Logger, *RecordingHandler) {
	h := NewRecordingHandler()
	return slog.New(h), h
}

// Enabled satisfies slog.Handler interface
func (h *RecordingHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle satisfies slog.Handler interface
func (h *RecordingHandler) Handle(_ context.Context, r slog.Record) error {
	entry := make(LogEntry, len(h.attrs)+r.NumAttrs()+2)
	for _, a := range h.attrs {
		entry[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})
	entry["level"] = r.Level.String()
	entry["message"] = r.Message

	h.store.mu.Lock()
	h.store.entries = append(h.store.entries, entry)
	h.store.mu.Unlock()
	return nil
}

// WithAttrs satisfies slog.Handler interface
func (h *RecordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &RecordingHandler{store: h.store, attrs: merged}
}

// WithGroup satisfies slog.Handler interface
func (h *RecordingHandler) WithGroup(string) slog.Handler {
	return h
}

// Entries returns all captured log entries
func (h *RecordingHandler) Entries() []LogEntry {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	result := make([]LogEntry, len(h.store.entries))
	copy(result, h.store.entries)
	return result
}

// Find returns the captured entries with the given message.
func (h *RecordingHandler) Find(message string) []LogEntry {
	var found []LogEntry
	for _, e := range h.Entries() {
		if e.Message() == message {
			found = append(found, e)
		}
	}
	return found
}
