package editorservice

import (
	"fmt"

	"github.com/starford/scribe/internal/apperr"
)

// Snippet names an insertable text block.
type Snippet string

const (
	SnippetDate     Snippet = "date"
	SnippetTime     Snippet = "time"
	SnippetDateTime Snippet = "datetime"
	SnippetLine     Snippet = "line"
	SnippetTodo     Snippet = "todo"
	SnippetQuote    Snippet = "quote"
	SnippetCode     Snippet = "code"
)

// Snippets lists every snippet name.
var Snippets = []Snippet{
	SnippetDate, SnippetTime, SnippetDateTime, SnippetLine, SnippetTodo, SnippetQuote, SnippetCode,
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

func (s *Service) snippet(name Snippet) (string, error) {
	now := s.now()
	switch name {
	case SnippetDate:
		return now.Format(dateLayout), nil
	case SnippetTime:
		return now.Format(timeLayout), nil
	case SnippetDateTime:
		return now.Format(dateLayout + " " + timeLayout), nil
	case SnippetLine:
		return "\n─────────────────────\n", nil
	case SnippetTodo:
		return "[ ] Todo item", nil
	case SnippetQuote:
		return "> Quote text here", nil
	case SnippetCode:
		return "```\ncode here\n```", nil
	default:
		return "", fmt.Errorf("snippet %q: %w", name, apperr.ErrInvalidArgument)
	}
}
