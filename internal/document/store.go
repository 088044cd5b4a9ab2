// Package document owns the set of open documents, the active-document
// pointer and the recency list. Every textual change goes through Mutate so
// it is versioned by the history manager.
//
// Operations on unknown ids are no-ops reported through an ok result.
package document

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/scribe/internal/history"
	"github.com/starford/scribe/internal/models"
)

// DefaultRecentLimit caps the recency list.
const DefaultRecentLimit = 10

// Store is the sole owner of open documents. It is not safe for concurrent use.
type Store struct {
	docs    map[string]*models.Document
	order   []string
	active  string
	recent  []string
	history *history.Manager

	recentLimit int
	now         func() time.Time
	newID       func() string
}

// Option configures a Store.
type Option func(*Store)

// WithRecentLimit sets the recency list cap.
func WithRecentLimit(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.recentLimit = n
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides document id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewStore creates an empty store recording into h.
func NewStore(h *history.Manager, opts ...Option) *Store {
	s := &Store{
		docs:        make(map[string]*models.Document),
		history:     h,
		recentLimit: DefaultRecentLimit,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History exposes the manager the store records into.
func (s *Store) History() *history.Manager {
	return s.history
}

// Create adds an empty document of kind and makes it active.
func (s *Store) Create(kind models.Kind) *models.Document {
	if !kind.Valid() {
		kind = models.KindPlain
	}
	return s.add("Untitled."+kind.Extension(), "", kind)
}

// Open adds a document holding content, with its kind derived from name, and
// makes it active.
func (s *Store) Open(name, content string) *models.Document {
	return s.add(name, content, models.KindFromName(name))
}

// Duplicate copies the content and kind of id under "<base> (copy).<ext>".
// The copy gets its own history seeded with the copied content. Locked
// documents cannot be duplicated.
func (s *Store) Duplicate(id string) (*models.Document, bool) {
	src, ok := s.docs[id]
	if !ok || src.Locked() {
		return nil, false
	}
	return s.add(copyName(src.Name), src.Content, src.Kind), true
}

func (s *Store) add(name, content string, kind models.Kind) *models.Document {
	d := &models.Document{
		ID:           s.newID(),
		Name:         name,
		Content:      content,
		Kind:         kind,
		LastModified: s.now(),
	}
	s.docs[d.ID] = d
	s.order = append(s.order, d.ID)
	s.history.Init(d.ID, content)
	s.Select(d.ID)
	return d.Clone()
}

// Get returns a copy of the document.
func (s *Store) Get(id string) (*models.Document, bool) {
	d, ok := s.docs[id]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// List returns copies of all documents in creation order.
func (s *Store) List() []*models.Document {
	out := make([]*models.Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id].Clone())
	}
	return out
}

// Len returns the number of open documents.
func (s *Store) Len() int {
	return len(s.order)
}

// Mutate replaces the content of id and records it in history.
// Locked documents refuse edits.
func (s *Store) Mutate(id, content string) (*models.Document, bool) {
	d, ok := s.docs[id]
	if !ok || d.Locked() {
		return nil, false
	}
	d.Content = content
	d.LastModified = s.now()
	s.history.Record(id, content)
	return d.Clone(), true
}

// Undo restores the previous history entry without recording a new one.
func (s *Store) Undo(id string) (*models.Document, bool) {
	return s.restore(id, s.history.Undo)
}

// Redo restores the next history entry without recording a new one.
func (s *Store) Redo(id string) (*models.Document, bool) {
	return s.restore(id, s.history.Redo)
}

// Restore moves the history cursor of id to index and applies that entry.
func (s *Store) Restore(id string, index int) (*models.Document, bool) {
	return s.restore(id, func(id string) (string, bool) {
		return s.history.Restore(id, index)
	})
}

func (s *Store) restore(id string, step func(string) (string, bool)) (*models.Document, bool) {
	d, ok := s.docs[id]
	if !ok || d.Locked() {
		return nil, false
	}
	content, ok := step(id)
	if !ok {
		return nil, false
	}
	d.Content = content
	d.LastModified = s.now()
	return d.Clone(), true
}

// Delete removes id and its history. If it was active, the first remaining
// document becomes active, or none when the store is empty.
func (s *Store) Delete(id string) bool {
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	s.recent = slices.DeleteFunc(s.recent, func(v string) bool { return v == id })
	s.history.Destroy(id)
	if s.active == id {
		s.active = ""
		if len(s.order) > 0 {
			s.active = s.order[0]
		}
	}
	return true
}

// Rename updates the document name. History is untouched.
func (s *Store) Rename(id, name string) (*models.Document, bool) {
	d, ok := s.docs[id]
	if !ok {
		return nil, false
	}
	d.Name = name
	return d.Clone(), true
}

// Select makes id active and moves it to the front of the recency list.
func (s *Store) Select(id string) bool {
	if _, ok := s.docs[id]; !ok {
		return false
	}
	s.active = id
	recent := make([]string, 0, s.recentLimit)
	recent = append(recent, id)
	for _, r := range s.recent {
		if len(recent) == s.recentLimit {
			break
		}
		if r != id {
			recent = append(recent, r)
		}
	}
	s.recent = recent
	return true
}

// Active returns the active document id, or "" when there is none.
func (s *Store) Active() string {
	return s.active
}

// Recent returns the recency list, most recent first.
func (s *Store) Recent() []string {
	return slices.Clone(s.recent)
}

// Lock moves id into the locked state holding cipherText.
func (s *Store) Lock(id, cipherText string) (*models.Document, bool) {
	d, ok := s.docs[id]
	if !ok || d.Locked() {
		return nil, false
	}
	d.Lock = &models.Lock{CipherText: cipherText}
	d.Content = models.LockedPlaceholder
	d.LastModified = s.now()
	return d.Clone(), true
}

// Unlock moves id back to the unlocked state with plainText as content.
func (s *Store) Unlock(id, plainText string) (*models.Document, bool) {
	d, ok := s.docs[id]
	if !ok || !d.Locked() {
		return nil, false
	}
	d.Lock = nil
	d.Content = plainText
	d.LastModified = s.now()
	return d.Clone(), true
}

// copyName derives "<base> (copy).<ext>" from name; names without an
// extension become "<name> (copy)".
func copyName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name + " (copy)"
	}
	return name[:i] + " (copy)" + name[i:]
}
