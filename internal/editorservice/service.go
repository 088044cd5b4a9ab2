// Package editorservice is the command surface over the editing core. It
// serializes every command behind one mutex, keeps the search catalog in
// step with the document store and publishes document events.
package editorservice

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/starford/scribe/internal/checksum"
	"github.com/starford/scribe/internal/cipher"
	"github.com/starford/scribe/internal/clipboard"
	"github.com/starford/scribe/internal/document"
	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/markup"
	"github.com/starford/scribe/internal/models"
	"github.com/starford/scribe/internal/search"
	"github.com/starford/scribe/internal/storage"
)

// Document event kinds passed to Notifier.
const (
	EventCreated  = "created"
	EventUpdated  = "updated"
	EventDeleted  = "deleted"
	EventLocked   = "locked"
	EventUnlocked = "unlocked"
)

// Notifier receives document change events.
type Notifier interface {
	PublishDocumentEvent(kind, id string)
}

// DefaultMinPasswordLength is the shortest accepted lock password.
const DefaultMinPasswordLength = 4

// DocumentDetail is the full representation of an open document.
type DocumentDetail struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Kind         models.Kind `json:"kind"`
	Content      string      `json:"content"`
	Checksum     string      `json:"checksum"`
	Locked       bool        `json:"locked"`
	Active       bool        `json:"active"`
	CanUndo      bool        `json:"can_undo"`
	CanRedo      bool        `json:"can_redo"`
	LastModified time.Time   `json:"last_modified"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Kind         models.Kind `json:"kind"`
	Checksum     string      `json:"checksum"`
	Locked       bool        `json:"locked"`
	Active       bool        `json:"active"`
	LastModified time.Time   `json:"last_modified"`
}

// WorkspaceState is the set of open documents with activation and recency.
type WorkspaceState struct {
	Active    string             `json:"active"`
	Recent    []string           `json:"recent"`
	Documents []DocumentListItem `json:"documents"`
}

// Service coordinates the document store, history, clipboard, cipher,
// workspace storage and catalog.
type Service struct {
	mu sync.Mutex

	docs      *document.Store
	clip      *clipboard.Ring
	cipher    cipher.Cipher
	workspace storage.Provider
	catalog   index.Catalog
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time

	defaultKind    models.Kind
	minPasswordLen int

	finds map[string]*findState
}

// Option configures a Service.
type Option func(*Service)

// WithWorkspace sets the directory provider used by OpenFile and Save.
func WithWorkspace(p storage.Provider) Option {
	return func(s *Service) { s.workspace = p }
}

// WithCatalog sets the search catalog kept in step with the store.
func WithCatalog(c index.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithNotifier sets the receiver of document events.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithCipher overrides the lock cipher.
func WithCipher(c cipher.Cipher) Option {
	return func(s *Service) { s.cipher = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the clock used for snippets.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaultKind sets the kind used by New when none is given.
func WithDefaultKind(k models.Kind) Option {
	return func(s *Service) {
		if k.Valid() {
			s.defaultKind = k
		}
	}
}

// WithMinPasswordLength sets the shortest accepted lock password.
func WithMinPasswordLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPasswordLen = n
		}
	}
}

// NewService creates a service over docs and clip.
func NewService(docs *document.Store, clip *clipboard.Ring, opts ...Option) *Service {
	s := &Service{
		docs:           docs,
		clip:           clip,
		cipher:         cipher.XOR{},
		logger:         slog.Default(),
		now:            time.Now,
		defaultKind:    models.KindPlain,
		minPasswordLen: DefaultMinPasswordLength,
		finds:          make(map[string]*findState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) detail(d *models.Document) *DocumentDetail {
	h := s.docs.History()
	return &DocumentDetail{
		ID:           d.ID,
		Name:         d.Name,
		Kind:         d.Kind,
		Content:      d.Content,
		Checksum:     checksum.String(d.Content),
		Locked:       d.Locked(),
		Active:       s.docs.Active() == d.ID,
		CanUndo:      !d.Locked() && h.CanUndo(d.ID),
		CanRedo:      !d.Locked() && h.CanRedo(d.ID),
		LastModified: d.LastModified,
	}
}

func (s *Service) listItem(d *models.Document) DocumentListItem {
	return DocumentListItem{
		ID:           d.ID,
		Name:         d.Name,
		Kind:         d.Kind,
		Checksum:     checksum.String(d.Content),
		Locked:       d.Locked(),
		Active:       s.docs.Active() == d.ID,
		LastModified: d.LastModified,
	}
}

// changed pushes d into the catalog and publishes kind.
// Catalog failures are logged; the store stays authoritative.
func (s *Service) changed(kind string, d *models.Document) {
	if s.catalog != nil {
		s.upsertCatalog(d)
	}
	s.publish(kind, d.ID)
}

// catalogDigest covers every catalog column derived from d except the
// timestamp.
func catalogDigest(d *models.Document) string {
	return checksum.String(strings.Join([]string{
		d.Name, string(d.Kind), strconv.FormatBool(d.Locked()), d.Content,
	}, "\x00"))
}

func (s *Service) upsertCatalog(d *models.Document) {
	digest := catalogDigest(d)
	if prev, err := s.catalog.GetChecksum(d.ID); err != nil {
		s.logger.Warn("catalog lookup failed", slog.String("id", d.ID), slog.String("error", err.Error()))
	} else if prev == digest {
		return
	}
	body := ""
	if !d.Locked() {
		body = markup.Strip(d.Content)
	}
	err := s.catalog.UpsertDocument(index.DocumentRow{
		ID:        d.ID,
		Name:      d.Name,
		Kind:      string(d.Kind),
		Checksum:  digest,
		Locked:    d.Locked(),
		UpdatedAt: d.LastModified,
	}, body)
	if err != nil {
		s.logger.Warn("catalog upsert failed", slog.String("id", d.ID), slog.String("error", err.Error()))
	}
}

func (s *Service) removed(id string) {
	delete(s.finds, id)
	if s.catalog != nil {
		if err := s.catalog.DeleteDocument(id); err != nil {
			s.logger.Warn("catalog delete failed", slog.String("id", id), slog.String("error", err.Error()))
		}
	}
	s.publish(EventDeleted, id)
}

func (s *Service) publish(kind, id string) {
	s.logger.Debug("document event", slog.String("kind", kind), slog.String("id", id))
	if s.notifier != nil {
		s.notifier.PublishDocumentEvent(kind, id)
	}
}

// findState is the last query run against a document.
type findState struct {
	query  string
	opts   search.Options
	cursor int
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
