// Package markup converts between the persisted inline markup syntax and a
// flat sequence of styled spans.
//
// Recognized constructs, in precedence order:
//
//	# heading       line-initial only
//	**bold**
//	*italic*        never part of a ** run
//	=={color}:text==, ==text==   highlight, color defaults to yellow
//	~~strike~~
//	\n              line break
//
// Constructs do not nest. Malformed markup decodes to literal text.
package markup

import (
	"regexp"
	"strings"
)

// Style identifies the formatting of a span.
type Style string

const (
	Text      Style = "text"
	Heading   Style = "heading"
	Bold      Style = "bold"
	Italic    Style = "italic"
	Highlight Style = "highlight"
	Strike    Style = "strike"
	LineBreak Style = "break"
)

// Color is a highlight color.
type Color string

const (
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	Pink   Color = "pink"
)

// Colors lists the supported highlight colors.
var Colors = []Color{Yellow, Green, Blue, Pink}

// Valid reports whether c is a supported highlight color.
func (c Color) Valid() bool {
	for _, k := range Colors {
		if c == k {
			return true
		}
	}
	return false
}

// Span is one run of uniformly formatted text.
// Color is only meaningful for Highlight spans.
type Span struct {
	Style Style  `json:"style"`
	Text  string `json:"text,omitempty"`
	Color Color  `json:"color,omitempty"`
}

// zeroWidthSpace is the cursor placeholder the editable view inserts.
const zeroWidthSpace = "\u200b"

var (
	headingRe   = regexp.MustCompile(`^# (.+)$`)
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	colorMarkRe = regexp.MustCompile(`==\{(yellow|green|blue|pink)\}:(.+?)==`)
	markRe      = regexp.MustCompile(`==(.+?)==`)
	strikeRe    = regexp.MustCompile(`~~(.+?)~~`)
)

// inlinePasses run in precedence order; each one only splits spans that are
// still plain text, so earlier constructs shadow later ones.
var inlinePasses = []func(string) []Span{
	regexPass(boldRe, func(g []string) Span {
		return Span{Style: Bold, Text: g[1]}
	}),
	splitItalic,
	regexPass(colorMarkRe, func(g []string) Span {
		return Span{Style: Highlight, Text: g[2], Color: Color(g[1])}
	}),
	regexPass(markRe, func(g []string) Span {
		return Span{Style: Highlight, Text: g[1], Color: Yellow}
	}),
	regexPass(strikeRe, func(g []string) Span {
		return Span{Style: Strike, Text: g[1]}
	}),
}

// Decode parses persisted markup into spans. It never fails.
func Decode(src string) []Span {
	src = strings.ReplaceAll(src, zeroWidthSpace, "")

	var out []Span
	for i, line := range strings.Split(src, "\n") {
		if i > 0 {
			out = append(out, Span{Style: LineBreak})
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			out = append(out, Span{Style: Heading, Text: m[1]})
			continue
		}
		spans := []Span{{Style: Text, Text: line}}
		for _, pass := range inlinePasses {
			spans = apply(spans, pass)
		}
		out = append(out, spans...)
	}
	return normalize(out)
}

// Encode writes spans back to persisted markup. Highlights are always written
// in the explicit color form, which is the normal form Decode converges to.
func Encode(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Style == LineBreak {
			b.WriteByte('\n')
			continue
		}
		if s.Text == "" {
			continue
		}
		b.WriteString(Wrap(s.Text, s.Style, s.Color))
	}
	return b.String()
}

// Wrap returns text enclosed in the markup for style.
func Wrap(text string, style Style, color Color) string {
	switch style {
	case Heading:
		return "# " + text
	case Bold:
		return "**" + text + "**"
	case Italic:
		return "*" + text + "*"
	case Highlight:
		if !color.Valid() {
			color = Yellow
		}
		return "=={" + string(color) + "}:" + text + "=="
	case Strike:
		return "~~" + text + "~~"
	case LineBreak:
		return "\n"
	default:
		return text
	}
}

// Strip removes every recognized construct from src and returns the literal
// text that remains.
func Strip(src string) string {
	var b strings.Builder
	for _, s := range Decode(src) {
		if s.Style == LineBreak {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func apply(spans []Span, pass func(string) []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Style != Text {
			out = append(out, s)
			continue
		}
		out = append(out, pass(s.Text)...)
	}
	return out
}

// regexPass splits text on every non-overlapping match of re, turning each
// match into the span produced by build from its submatches.
func regexPass(re *regexp.Regexp, build func(groups []string) Span) func(string) []Span {
	return func(s string) []Span {
		locs := re.FindAllStringSubmatchIndex(s, -1)
		if locs == nil {
			return []Span{{Style: Text, Text: s}}
		}
		var out []Span
		last := 0
		for _, loc := range locs {
			if loc[0] > last {
				out = append(out, Span{Style: Text, Text: s[last:loc[0]]})
			}
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = s[loc[2*g]:loc[2*g+1]]
				}
			}
			out = append(out, build(groups))
			last = loc[1]
		}
		if last < len(s) {
			out = append(out, Span{Style: Text, Text: s[last:]})
		}
		return out
	}
}

// splitItalic matches *text* where neither delimiter touches another
// asterisk and the body contains none. RE2 has no lookaround, so this is a
// scanner rather than a regexp.
func splitItalic(s string) []Span {
	var out []Span
	last := 0
	for i := 0; i+2 < len(s); i++ {
		if s[i] != '*' || s[i+1] == '*' || (i > 0 && s[i-1] == '*') {
			continue
		}
		j := strings.IndexByte(s[i+1:], '*')
		if j < 0 {
			break
		}
		j += i + 1
		if j+1 < len(s) && s[j+1] == '*' {
			continue
		}
		if i > last {
			out = append(out, Span{Style: Text, Text: s[last:i]})
		}
		out = append(out, Span{Style: Italic, Text: s[i+1 : j]})
		last = j + 1
		i = j
	}
	if last == 0 {
		return []Span{{Style: Text, Text: s}}
	}
	if last < len(s) {
		out = append(out, Span{Style: Text, Text: s[last:]})
	}
	return out
}

// normalize drops empty text spans and merges adjacent text spans.
func normalize(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Style == Text {
			if s.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Style == Text {
				out[n-1].Text += s.Text
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
