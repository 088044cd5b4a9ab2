// Package export projects a document into downloadable representations.
// Projections are pure: they never touch the store or history.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/markup"
)

// Format selects an export projection.
type Format string

const (
	FormatText   Format = "txt"
	FormatMarkup Format = "md"
	FormatHTML   Format = "html"
	FormatPrint  Format = "print"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatMarkup, FormatHTML, FormatPrint}

// Valid reports whether f is supported.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatMarkup, FormatHTML, FormatPrint:
		return true
	}
	return false
}

// Result is an exported file.
type Result struct {
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	Body      string `json:"body"`
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.5; }
mark[data-color="yellow"] { background: #fef08a; }
mark[data-color="green"] { background: #bbf7d0; }
mark[data-color="blue"] { background: #bfdbfe; }
mark[data-color="pink"] { background: #fbcfe8; }
</style>
</head>
<body>
{{.Body}}
{{- if .Print}}
<script>window.onload = function () { window.print(); };</script>
{{- end}}
</body>
</html>
`))

// Document renders content named name in format f.
func Document(name, content string, f Format) (*Result, error) {
	base := BaseName(name)
	switch f {
	case FormatText:
		return &Result{Filename: base + ".txt", MediaType: "text/plain; charset=utf-8", Body: markup.Strip(content)}, nil
	case FormatMarkup:
		return &Result{Filename: base + ".md", MediaType: "text/markdown; charset=utf-8", Body: content}, nil
	case FormatHTML, FormatPrint:
		body, err := page(base, content, f == FormatPrint)
		if err != nil {
			return nil, err
		}
		return &Result{Filename: base + ".html", MediaType: "text/html; charset=utf-8", Body: body}, nil
	default:
		return nil, fmt.Errorf("export: format %q: %w", f, apperr.ErrInvalidArgument)
	}
}

func page(title, content string, print bool) (string, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
		Print bool
	}{
		Title: title,
		Body:  template.HTML(markup.RenderHTML(markup.Decode(content))),
		Print: print,
	})
	if err != nil {
		return "", fmt.Errorf("export: render page: %w", err)
	}
	return buf.String(), nil
}

// BaseName strips directories and the final extension from name.
func BaseName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == "/" {
		return "document"
	}
	return base
}
