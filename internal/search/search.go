// Package search implements the find/replace engine over document content.
//
// Offsets and lengths are byte positions in the UTF-8 content. Patterns use
// RE2 syntax when Regex is set.
package search

import (
	"fmt"
	"regexp"

	"github.com/starford/scribe/internal/apperr"
)

// Options are the query flags.
type Options struct {
	Regex         bool `json:"regex"`
	CaseSensitive bool `json:"case_sensitive"`
}

// Match is one occurrence of a pattern.
type Match struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End returns the offset just past the match.
func (m Match) End() int {
	return m.Offset + m.Length
}

// Pattern is a compiled query.
type Pattern struct {
	Source  string
	Options Options
	re      *regexp.Regexp
}

// CompileError reports a malformed regex query.
type CompileError struct {
	Query string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("search: compile %q: %v", e.Query, e.Err)
}

// Unwrap lets errors.Is match apperr.ErrInvalidPattern.
func (e *CompileError) Unwrap() []error {
	return []error{apperr.ErrInvalidPattern, e.Err}
}

// Compile builds a pattern from query. A literal query is escaped so every
// character matches itself; matching is case-insensitive unless
// CaseSensitive is set.
func Compile(query string, opts Options) (*Pattern, error) {
	if query == "" {
		return nil, apperr.ErrEmptyQuery
	}
	expr := query
	if !opts.Regex {
		expr = regexp.QuoteMeta(query)
	}
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &CompileError{Query: query, Err: err}
	}
	return &Pattern{Source: query, Options: opts, re: re}, nil
}

// FindAll returns all non-overlapping matches left to right.
// A nil pattern has no matches.
func FindAll(content string, p *Pattern) []Match {
	if p == nil {
		return nil
	}
	locs := p.re.FindAllStringIndex(content, -1)
	out := make([]Match, len(locs))
	for i, loc := range locs {
		out[i] = Match{Offset: loc[0], Length: loc[1] - loc[0]}
	}
	return out
}

// FindNext returns the match after the one at index cursor, wrapping past the
// last match to the first. Pass -1 to get the first match. The second return
// value is the index of the returned match.
func FindNext(content string, p *Pattern, cursor int) (Match, int, bool) {
	matches := FindAll(content, p)
	if len(matches) == 0 {
		return Match{}, -1, false
	}
	next := (cursor + 1) % len(matches)
	if next < 0 {
		next = 0
	}
	return matches[next], next, true
}

// ReplaceAll substitutes every match with the literal replacement text.
// Content is returned unchanged when p is nil or nothing matches.
func ReplaceAll(content string, p *Pattern, replacement string) (string, int) {
	if p == nil {
		return content, 0
	}
	n := len(p.re.FindAllStringIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return p.re.ReplaceAllLiteralString(content, replacement), n
}
