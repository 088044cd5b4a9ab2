// Package clipboard implements the bounded, deduplicated clipboard history.
package clipboard

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/scribe/internal/models"
)

// DefaultCapacity is the number of items the ring keeps.
const DefaultCapacity = 20

// Ring holds copied snippets newest-first. No two items share the same text.
// It is not safe for concurrent use.
type Ring struct {
	capacity int
	now      func() time.Time
	items    []models.ClipboardItem
}

// NewRing creates a ring holding at most capacity items. Non-positive
// capacities fall back to DefaultCapacity.
func NewRing(capacity int, now func() time.Time) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Ring{capacity: capacity, now: now}
}

// Push records text as the newest item. Blank text is ignored. An existing
// item with identical text is moved to the front with a fresh timestamp.
func (r *Ring) Push(text string) (models.ClipboardItem, bool) {
	if strings.TrimSpace(text) == "" {
		return models.ClipboardItem{}, false
	}
	item := models.ClipboardItem{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: r.now(),
	}
	items := make([]models.ClipboardItem, 0, min(len(r.items)+1, r.capacity))
	items = append(items, item)
	for _, it := range r.items {
		if len(items) == r.capacity {
			break
		}
		if it.Text != text {
			items = append(items, it)
		}
	}
	r.items = items
	return item, true
}

// Items returns a copy of the ring, newest first.
func (r *Ring) Items() []models.ClipboardItem {
	out := make([]models.ClipboardItem, len(r.items))
	copy(out, r.items)
	return out
}

// Get returns the item with the given id.
func (r *Ring) Get(id string) (models.ClipboardItem, bool) {
	for _, it := range r.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.ClipboardItem{}, false
}

// Len returns the number of items held.
func (r *Ring) Len() int {
	return len(r.items)
}

// Clear empties the ring.
func (r *Ring) Clear() {
	r.items = nil
}
