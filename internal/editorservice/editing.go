package editorservice

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/markup"
	"github.com/starford/scribe/internal/models"
)

// Range is a half-open byte range [Start, End) into document content.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CaseMode selects a case conversion.
type CaseMode string

const (
	CaseUpper CaseMode = "upper"
	CaseLower CaseMode = "lower"
	CaseTitle CaseMode = "title"
)

// Stats are simple document counters.
type Stats struct {
	Lines int `json:"lines"`
	Words int `json:"words"`
	Chars int `json:"chars"`
}

// Rendered is a document decoded into spans plus their HTML form.
type Rendered struct {
	Spans []markup.Span `json:"spans"`
	HTML  string        `json:"html"`
}

// PasteSource picks what Paste inserts: Text when set, else the clipboard
// item ItemID, else the newest clipboard item.
type PasteSource struct {
	Text   string `json:"text,omitempty"`
	ItemID string `json:"item_id,omitempty"`
}

func boundary(s string, i int) bool {
	return i == len(s) || (i >= 0 && i < len(s) && utf8.RuneStart(s[i]))
}

// checkRange requires a non-empty range on rune boundaries inside content.
func checkRange(content string, r Range) error {
	if r.Start < 0 || r.End > len(content) || r.Start >= r.End ||
		!boundary(content, r.Start) || !boundary(content, r.End) {
		return fmt.Errorf("range [%d,%d): %w", r.Start, r.End, apperr.ErrInvalidRange)
	}
	return nil
}

func checkOffset(content string, off int) error {
	if off < 0 || off > len(content) || !boundary(content, off) {
		return fmt.Errorf("offset %d: %w", off, apperr.ErrInvalidRange)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%s: %w", err.Error(), apperr.ErrInvalidArgument)
}

// replaceRange rewrites content[r] through fn and records the result.
func (s *Service) replaceRange(id string, r Range, fn func(string) string) (*DocumentDetail, error) {
	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	if err := checkRange(d.Content, r); err != nil {
		return nil, err
	}
	out := d.Content[:r.Start] + fn(d.Content[r.Start:r.End]) + d.Content[r.End:]
	return s.mutate(d.ID, out)
}

// insertAt records content with text inserted at off.
func (s *Service) insertAt(d *models.Document, off int, text string) (*DocumentDetail, error) {
	if err := checkOffset(d.Content, off); err != nil {
		return nil, err
	}
	return s.mutate(d.ID, d.Content[:off]+text+d.Content[off:])
}

// Format wraps the range in the markup for style.
func (s *Service) Format(_ context.Context, id string, r Range, style markup.Style, color markup.Color) (*DocumentDetail, error) {
	if err := validation.Validate(style, validation.Required,
		validation.In(markup.Heading, markup.Bold, markup.Italic, markup.Highlight, markup.Strike)); err != nil {
		return nil, invalid(fmt.Errorf("style: %w", err))
	}
	if err := validation.Validate(color, validation.In(markup.Yellow, markup.Green, markup.Blue, markup.Pink)); err != nil {
		return nil, invalid(fmt.Errorf("color: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	if err := checkRange(d.Content, r); err != nil {
		return nil, err
	}
	if err := checkFormatRange(d.Content, r, style); err != nil {
		return nil, err
	}
	return s.replaceRange(d.ID, r, func(sel string) string {
		return markup.Wrap(sel, style, color)
	})
}

// checkFormatRange rejects ranges whose markup would not decode: every
// construct lives on one line and a heading must open its line.
func checkFormatRange(content string, r Range, style markup.Style) error {
	if strings.Contains(content[r.Start:r.End], "\n") {
		return fmt.Errorf("range [%d,%d) spans lines: %w", r.Start, r.End, apperr.ErrInvalidRange)
	}
	if style == markup.Heading && r.Start > 0 && content[r.Start-1] != '\n' {
		return fmt.Errorf("heading at %d does not start a line: %w", r.Start, apperr.ErrInvalidRange)
	}
	return nil
}

// ClearFormatting strips every markup construct inside the range.
func (s *Service) ClearFormatting(_ context.Context, id string, r Range) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceRange(id, r, markup.Strip)
}

// ConvertCase changes the letter case of the range.
func (s *Service) ConvertCase(_ context.Context, id string, r Range, mode CaseMode) (*DocumentDetail, error) {
	var c cases.Caser
	switch mode {
	case CaseUpper:
		c = cases.Upper(language.Und)
	case CaseLower:
		c = cases.Lower(language.Und)
	case CaseTitle:
		c = cases.Title(language.Und)
	default:
		return nil, fmt.Errorf("case mode %q: %w", mode, apperr.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceRange(id, r, c.String)
}

// Insert places a snippet at offset.
func (s *Service) Insert(_ context.Context, id string, offset int, snippet Snippet) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.snippet(snippet)
	if err != nil {
		return nil, err
	}
	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	return s.insertAt(d, offset, text)
}

// Cut moves the range into the clipboard.
func (s *Service) Cut(_ context.Context, id string, r Range) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	if err := checkRange(d.Content, r); err != nil {
		return nil, err
	}
	s.clip.Push(d.Content[r.Start:r.End])
	return s.mutate(d.ID, d.Content[:r.Start]+d.Content[r.End:])
}

// CopyRange pushes the range into the clipboard. Blank selections are
// ignored and return a nil item.
func (s *Service) CopyRange(_ context.Context, id string, r Range) (*models.ClipboardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	if err := checkRange(d.Content, r); err != nil {
		return nil, err
	}
	return s.push(d.Content[r.Start:r.End]), nil
}

// Copy pushes text into the clipboard. Blank text is ignored and returns nil.
func (s *Service) Copy(_ context.Context, text string) *models.ClipboardItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.push(text)
}

func (s *Service) push(text string) *models.ClipboardItem {
	item, ok := s.clip.Push(text)
	if !ok {
		return nil
	}
	return &item
}

// Paste inserts text or a clipboard item at offset.
func (s *Service) Paste(_ context.Context, id string, offset int, src PasteSource) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	text := src.Text
	switch {
	case text != "":
	case src.ItemID != "":
		item, ok := s.clip.Get(src.ItemID)
		if !ok {
			return nil, fmt.Errorf("clipboard item %q: %w", src.ItemID, apperr.ErrNotFound)
		}
		text = item.Text
	default:
		items := s.clip.Items()
		if len(items) == 0 {
			return nil, fmt.Errorf("clipboard is empty: %w", apperr.ErrNotFound)
		}
		text = items[0].Text
	}
	return s.insertAt(d, offset, text)
}

// ClipboardItems returns the clipboard, newest first.
func (s *Service) ClipboardItems(_ context.Context) []models.ClipboardItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nonNilSlice(s.clip.Items())
}

// ClearClipboard empties the clipboard.
func (s *Service) ClearClipboard(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clip.Clear()
}

// Stats counts lines, words and characters of the document content.
func (s *Service) Stats(_ context.Context, id string) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Lines: strings.Count(d.Content, "\n") + 1,
		Words: len(strings.Fields(d.Content)),
		Chars: utf8.RuneCountInString(d.Content),
	}, nil
}

// Render decodes the document into spans and HTML.
func (s *Service) Render(_ context.Context, id string) (*Rendered, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	spans := markup.Decode(d.Content)
	return &Rendered{Spans: nonNilSlice(spans), HTML: markup.RenderHTML(spans)}, nil
}
