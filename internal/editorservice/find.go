package editorservice

import (
	"context"
	"fmt"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/search"
)

// FindResult reports the matches of a query over the current content.
// Malformed or empty queries yield zero matches and a message in Error.
type FindResult struct {
	Query   string         `json:"query"`
	Options search.Options `json:"options"`
	Matches []search.Match `json:"matches"`
	Count   int            `json:"count"`
	Cursor  int            `json:"cursor"`
	Current *search.Match  `json:"current,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ReplaceResult reports a replace-all run.
type ReplaceResult struct {
	Document *DocumentDetail `json:"document"`
	Count    int             `json:"count"`
	Error    string          `json:"error,omitempty"`
}

func findResult(st *search.State) *FindResult {
	r := &FindResult{
		Query:   st.Query,
		Options: st.Options,
		Matches: nonNilSlice(st.Matches),
		Count:   st.Count(),
		Cursor:  st.Cursor,
	}
	if m, ok := st.Current(); ok {
		r.Current = &m
	}
	if st.Err != nil {
		r.Error = st.Err.Error()
	}
	return r
}

// Find runs query over the document and remembers it for FindNext.
func (s *Service) Find(_ context.Context, id, query string, opts search.Options) (*FindResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	st := search.NewState(d.Content, query, opts)
	s.finds[d.ID] = &findState{query: query, opts: opts, cursor: -1}
	return findResult(st), nil
}

// FindNext advances to the next match of the remembered query, wrapping
// after the last one. Matches are recomputed against the current content.
func (s *Service) FindNext(_ context.Context, id string) (*FindResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	f, ok := s.finds[d.ID]
	if !ok {
		return nil, fmt.Errorf("no active query: %w", apperr.ErrEmptyQuery)
	}
	st := search.NewState(d.Content, f.query, f.opts)
	st.Cursor = f.cursor
	if _, ok := st.Next(); !ok {
		st.Cursor = -1
	}
	f.cursor = st.Cursor
	return findResult(st), nil
}

// ReplaceAll substitutes every match of query with the literal replacement.
// Zero matches leave the document and its history untouched.
func (s *Service) ReplaceAll(_ context.Context, id, query, replacement string, opts search.Options) (*ReplaceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	p, err := search.Compile(query, opts)
	if err != nil {
		return &ReplaceResult{Document: s.detail(d), Error: err.Error()}, nil
	}
	content, n := search.ReplaceAll(d.Content, p, replacement)
	if n == 0 {
		return &ReplaceResult{Document: s.detail(d)}, nil
	}
	if f, ok := s.finds[d.ID]; ok {
		f.cursor = -1
	}
	detail, err := s.mutate(d.ID, content)
	if err != nil {
		return nil, err
	}
	return &ReplaceResult{Document: detail, Count: n}, nil
}
