package editorservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/checksum"
	"github.com/starford/scribe/internal/models"
	"github.com/starford/scribe/internal/storage"
)

// HistoryView is the undo timeline of one document.
type HistoryView struct {
	Entries []models.HistoryEntry `json:"entries"`
	Cursor  int                   `json:"cursor"`
}

// get resolves id, with "" meaning the active document.
func (s *Service) get(id string) (*models.Document, error) {
	if id == "" {
		id = s.docs.Active()
	}
	d, ok := s.docs.Get(id)
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

func (s *Service) getUnlocked(id string) (*models.Document, error) {
	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if d.Locked() {
		return nil, fmt.Errorf("document %q: %w", d.ID, apperr.ErrLocked)
	}
	return d, nil
}

// New creates an empty document. An empty kind uses the configured default.
func (s *Service) New(_ context.Context, kind models.Kind) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == "" {
		kind = s.defaultKind
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("kind %q: %w", kind, apperr.ErrInvalidArgument)
	}
	d := s.docs.Create(kind)
	s.changed(EventCreated, d)
	return s.detail(d), nil
}

// Open adds a document holding content under name.
func (s *Service) Open(_ context.Context, name, content string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidArgument)
	}
	d := s.docs.Open(name, content)
	s.changed(EventCreated, d)
	return s.detail(d), nil
}

// OpenFile opens a workspace file as a new document named after its path.
func (s *Service) OpenFile(_ context.Context, path string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workspace == nil {
		return nil, fmt.Errorf("no workspace configured: %w", apperr.ErrInvalidPath)
	}
	data, err := s.workspace.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %q: %w", path, apperr.ErrNotFound)
		}
		return nil, err
	}
	d := s.docs.Open(path, string(data))
	s.changed(EventCreated, d)
	return s.detail(d), nil
}

// Save writes the document content to path in the workspace. An empty path
// uses the document name.
func (s *Service) Save(_ context.Context, id, path string) (*storage.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.workspace == nil {
		return nil, fmt.Errorf("no workspace configured: %w", apperr.ErrInvalidPath)
	}
	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = d.Name
	}
	data := []byte(d.Content)
	if err := s.workspace.Write(path, data); err != nil {
		return nil, err
	}
	s.logger.Info("document saved", slog.String("id", d.ID), slog.String("path", path))
	return &storage.FileInfo{
		Path:      path,
		Checksum:  checksum.Sum(data),
		Size:      int64(len(data)),
		UpdatedAt: s.now(),
	}, nil
}

// Duplicate copies a document under a derived name.
func (s *Service) Duplicate(_ context.Context, id string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	d, ok := s.docs.Duplicate(src.ID)
	if !ok {
		return nil, fmt.Errorf("document %q: %w", src.ID, apperr.ErrNotFound)
	}
	s.changed(EventCreated, d)
	return s.detail(d), nil
}

// Delete closes a document and drops its history.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.get(id)
	if err != nil {
		return err
	}
	s.docs.Delete(d.ID)
	s.removed(d.ID)
	return nil
}

// Rename changes the document name.
func (s *Service) Rename(_ context.Context, id, name string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidArgument)
	}
	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	d, _ = s.docs.Rename(d.ID, name)
	s.changed(EventUpdated, d)
	return s.detail(d), nil
}

// Select activates a document.
func (s *Service) Select(_ context.Context, id string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	s.docs.Select(d.ID)
	return s.detail(d), nil
}

// Get returns one document; "" means the active one.
func (s *Service) Get(_ context.Context, id string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.detail(d), nil
}

// List returns all open documents in creation order.
func (s *Service) List(_ context.Context) []DocumentListItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.docs.List()
	items := make([]DocumentListItem, len(docs))
	for i, d := range docs {
		items[i] = s.listItem(d)
	}
	return items
}

// Workspace returns the open documents with the active id and recency list.
func (s *Service) Workspace(ctx context.Context) *WorkspaceState {
	items := s.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	return &WorkspaceState{
		Active:    s.docs.Active(),
		Recent:    nonNilSlice(s.docs.Recent()),
		Documents: items,
	}
}

// Edit replaces the whole content of a document. A non-empty ifMatch must
// equal the checksum of the current content.
func (s *Service) Edit(_ context.Context, id, content, ifMatch string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	if !checksum.Match(d.Content, ifMatch) {
		return nil, apperr.ErrConflict
	}
	if content == d.Content {
		return s.detail(d), nil
	}
	return s.mutate(d.ID, content)
}

// mutate applies content through the store and announces the change.
func (s *Service) mutate(id, content string) (*DocumentDetail, error) {
	d, ok := s.docs.Mutate(id, content)
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, apperr.ErrNotFound)
	}
	s.changed(EventUpdated, d)
	return s.detail(d), nil
}

// Undo steps the document one entry back in its history.
func (s *Service) Undo(_ context.Context, id string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	d, ok := s.docs.Undo(d.ID)
	if !ok {
		return nil, apperr.ErrNothingToUndo
	}
	s.changed(EventUpdated, d)
	return s.detail(d), nil
}

// Redo steps the document one entry forward in its history.
func (s *Service) Redo(_ context.Context, id string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	d, ok := s.docs.Redo(d.ID)
	if !ok {
		return nil, apperr.ErrNothingToRedo
	}
	s.changed(EventUpdated, d)
	return s.detail(d), nil
}

// RestoreHistory moves the document to history entry index.
func (s *Service) RestoreHistory(_ context.Context, id string, index int) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	d, ok := s.docs.Restore(d.ID, index)
	if !ok {
		return nil, fmt.Errorf("history entry %d: %w", index, apperr.ErrInvalidRange)
	}
	s.changed(EventUpdated, d)
	return s.detail(d), nil
}

// History returns the undo timeline of a document. Locked documents are
// refused since their timeline holds plain text.
func (s *Service) History(_ context.Context, id string) (*HistoryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	entries, cursor := s.docs.History().Entries(d.ID)
	return &HistoryView{Entries: nonNilSlice(entries), Cursor: cursor}, nil
}
