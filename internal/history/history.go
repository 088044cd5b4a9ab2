// Package history keeps a bounded, per-document undo/redo track.
//
// Every track holds at least one entry, and the entry under the cursor is
// always the content currently materialized in the document. Operations on an
// unknown document id are no-ops.
package history

import (
	"time"

	"github.com/starford/scribe/internal/models"
)

// DefaultLimit is the maximum number of entries kept per document.
const DefaultLimit = 50

type track struct {
	entries []models.HistoryEntry
	cursor  int
}

// Manager owns the history tracks of all open documents, keyed by document id.
// It is not safe for concurrent use.
type Manager struct {
	limit  int
	now    func() time.Time
	tracks map[string]*track
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit sets the per-document entry cap. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n >= 1 {
			m.limit = n
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		limit:  DefaultLimit,
		now:    time.Now,
		tracks: make(map[string]*track),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init creates (or resets) the track for id, seeded with content.
func (m *Manager) Init(id, content string) {
	m.tracks[id] = &track{
		entries: []models.HistoryEntry{{Content: content, Timestamp: m.now()}},
	}
}

// Record appends content after the cursor, discarding the redo branch, and
// evicts the oldest entry when the track exceeds the limit.
func (m *Manager) Record(id, content string) {
	t, ok := m.tracks[id]
	if !ok {
		return
	}
	entries := append(t.entries[:t.cursor+1:t.cursor+1], models.HistoryEntry{
		Content:   content,
		Timestamp: m.now(),
	})
	if over := len(entries) - m.limit; over > 0 {
		entries = entries[over:]
	}
	t.entries = entries
	t.cursor = len(entries) - 1
}

// Undo moves the cursor back one entry and returns its content.
func (m *Manager) Undo(id string) (string, bool) {
	t, ok := m.tracks[id]
	if !ok || t.cursor == 0 {
		return "", false
	}
	t.cursor--
	return t.entries[t.cursor].Content, true
}

// Redo moves the cursor forward one entry and returns its content.
func (m *Manager) Redo(id string) (string, bool) {
	t, ok := m.tracks[id]
	if !ok || t.cursor >= len(t.entries)-1 {
		return "", false
	}
	t.cursor++
	return t.entries[t.cursor].Content, true
}

// Restore moves the cursor to an arbitrary existing entry without recording.
func (m *Manager) Restore(id string, index int) (string, bool) {
	t, ok := m.tracks[id]
	if !ok || index < 0 || index >= len(t.entries) {
		return "", false
	}
	t.cursor = index
	return t.entries[index].Content, true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo(id string) bool {
	t, ok := m.tracks[id]
	return ok && t.cursor > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo(id string) bool {
	t, ok := m.tracks[id]
	return ok && t.cursor < len(t.entries)-1
}

// Entries returns a copy of the track for id and the cursor position.
// The cursor is -1 for an unknown id.
func (m *Manager) Entries(id string) ([]models.HistoryEntry, int) {
	t, ok := m.tracks[id]
	if !ok {
		return nil, -1
	}
	out := make([]models.HistoryEntry, len(t.entries))
	copy(out, t.entries)
	return out, t.cursor
}

// Destroy removes the track for id.
func (m *Manager) Destroy(id string) {
	delete(m.tracks, id)
}
