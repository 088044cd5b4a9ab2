package editorservice

import (
	"context"
	"fmt"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/export"
	"github.com/starford/scribe/internal/index"
)

// Export projects the document into format.
func (s *Service) Export(_ context.Context, id string, format export.Format) (*export.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	return export.Document(d.Name, d.Content, format)
}

// SearchAll runs a catalog search across every open document.
func (s *Service) SearchAll(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if query == "" {
		return nil, apperr.ErrEmptyQuery
	}
	if s.catalog == nil {
		return []index.SearchResult{}, nil
	}
	results, err := s.catalog.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	return nonNilSlice(results), nil
}

// Files lists the workspace files known to the catalog.
func (s *Service) Files(_ context.Context) ([]index.FileRow, error) {
	if s.catalog == nil {
		return []index.FileRow{}, nil
	}
	files, err := s.catalog.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("catalog files: %w", err)
	}
	return nonNilSlice(files), nil
}
