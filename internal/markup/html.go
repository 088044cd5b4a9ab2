package markup

import (
	"html"
	"regexp"
	"strings"
)

// RenderHTML renders spans as an HTML fragment for display.
// All text is escaped; highlights carry their color in data-color.
func RenderHTML(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		text := html.EscapeString(s.Text)
		switch s.Style {
		case Heading:
			b.WriteString("<h2>" + text + "</h2>")
		case Bold:
			b.WriteString("<strong>" + text + "</strong>")
		case Italic:
			b.WriteString("<em>" + text + "</em>")
		case Highlight:
			color := s.Color
			if !color.Valid() {
				color = Yellow
			}
			b.WriteString(`<mark data-color="` + string(color) + `">` + text + "</mark>")
		case Strike:
			b.WriteString("<del>" + text + "</del>")
		case LineBreak:
			b.WriteString("<br>")
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}

var (
	htmlHeadingRe = regexp.MustCompile(`(?i)<h2[^>]*>(.*?)</h2>`)
	htmlBreakRe   = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlStrongRe  = regexp.MustCompile(`(?i)<strong[^>]*>(.*?)</strong>`)
	htmlBRe       = regexp.MustCompile(`(?i)<b>(.*?)</b>`)
	htmlEmRe      = regexp.MustCompile(`(?i)<em[^>]*>(.*?)</em>`)
	htmlIRe       = regexp.MustCompile(`(?i)<i>(.*?)</i>`)
	htmlMarkRe    = regexp.MustCompile(`(?i)<mark([^>]*)>(.*?)</mark>`)
	htmlDelRe     = regexp.MustCompile(`(?i)<(?:del|s)>(.*?)</(?:del|s)>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	dataColorRe   = regexp.MustCompile(`data-color="([a-z]+)"`)
)

// FromHTML converts the HTML of an editable view back to persisted markup.
// Unknown tags are dropped and entities are unescaped.
func FromHTML(src string) string {
	s := htmlHeadingRe.ReplaceAllString(src, "# $1")
	s = htmlBreakRe.ReplaceAllString(s, "\n")
	s = htmlStrongRe.ReplaceAllString(s, "**$1**")
	s = htmlBRe.ReplaceAllString(s, "**$1**")
	s = htmlEmRe.ReplaceAllString(s, "*$1*")
	s = htmlIRe.ReplaceAllString(s, "*$1*")
	s = htmlMarkRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := htmlMarkRe.FindStringSubmatch(m)
		color := Yellow
		if c := dataColorRe.FindStringSubmatch(sub[1]); c != nil && Color(c[1]).Valid() {
			color = Color(c[1])
		}
		return Wrap(sub[2], Highlight, color)
	})
	s = htmlDelRe.ReplaceAllString(s, "~~$1~~")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.ReplaceAll(s, zeroWidthSpace, "")
}
