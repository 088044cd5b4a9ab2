package search

// State is the result of running a query over one content snapshot.
// It is recomputed from scratch whenever content, query or options change.
type State struct {
	Query   string  `json:"query"`
	Options Options `json:"options"`
	Matches []Match `json:"matches"`
	Cursor  int     `json:"cursor"`
	Err     error   `json:"-"`
}

// NewState compiles query and collects its matches over content. A compile
// failure is kept in Err and yields zero matches.
func NewState(content, query string, opts Options) *State {
	s := &State{Query: query, Options: opts, Cursor: -1, Matches: []Match{}}
	p, err := Compile(query, opts)
	if err != nil {
		s.Err = err
		return s
	}
	if m := FindAll(content, p); len(m) > 0 {
		s.Matches = m
	}
	return s
}

// Count returns the number of matches.
func (s *State) Count() int {
	return len(s.Matches)
}

// Next advances the cursor cyclically and returns the match under it.
func (s *State) Next() (Match, bool) {
	if len(s.Matches) == 0 {
		return Match{}, false
	}
	s.Cursor = (s.Cursor + 1) % len(s.Matches)
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	return s.Matches[s.Cursor], true
}

// Current returns the match under the cursor, if any.
func (s *State) Current() (Match, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Matches) {
		return Match{}, false
	}
	return s.Matches[s.Cursor], true
}
