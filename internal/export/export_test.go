package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/scribe/internal/apperr"
)

const sample = "# Title\n**bold** and =={pink}:marked== <tag>"

func TestDocument_Text(t *testing.T) {
	r, err := Document("notes.md", sample, FormatText)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if r.Filename != "notes.txt" {
		t.Errorf("filename = %q", r.Filename)
	}
	if r.Body != "Title\nbold and marked <tag>" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestDocument_Markup(t *testing.T) {
	r, err := Document("notes.md", sample, FormatMarkup)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if r.Filename != "notes.md" || r.Body != sample {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestDocument_HTML(t *testing.T) {
	r, err := Document("dir/notes.md", sample, FormatHTML)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if r.Filename != "notes.html" || !strings.HasPrefix(r.MediaType, "text/html") {
		t.Errorf("unexpected result %+v", r)
	}
	for _, want := range []string{
		"<title>notes</title>",
		"<h2>Title</h2>",
		"<strong>bold</strong>",
		`<mark data-color="pink">marked</mark>`,
		"&lt;tag&gt;",
	} {
		if !strings.Contains(r.Body, want) {
			t.Errorf("html missing %q:\n%s", want, r.Body)
		}
	}
	if strings.Contains(r.Body, "window.print") {
		t.Error("plain html export must not print")
	}
}

func TestDocument_Print(t *testing.T) {
	r, err := Document("notes.md", sample, FormatPrint)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(r.Body, "window.print()") {
		t.Error("print export should trigger the print dialog")
	}
}

func TestDocument_UnknownFormat(t *testing.T) {
	if _, err := Document("a.txt", "x", "pdf"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"a.txt":         "a",
		"dir/b.tar.gz":  "b.tar",
		"Makefile":      "Makefile",
		".env":          ".env",
		"":              "document",
		`win\path\c.md`: "c",
	}
	for in, want := range cases {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
