package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scribe/internal/editorservice"
	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/markup"
	"github.com/starford/scribe/internal/models"
	"github.com/starford/scribe/internal/search"
)

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = editorservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = editorservice.DocumentListItem

// DocumentListResponse wraps the open documents.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents"`
	Total     int                `json:"total"`
}

// SearchResponse wraps cross-document search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// CreateDocumentRequest opens a document. Path reads a workspace file;
// otherwise Name and Content create it in memory; with neither an empty
// document of Kind is created.
type CreateDocumentRequest struct {
	Kind    models.Kind `json:"kind,omitempty" example:"markdown"`
	Name    string      `json:"name,omitempty" example:"notes.md"`
	Content string      `json:"content,omitempty" example:"# Hello"`
	Path    string      `json:"path,omitempty" example:"notes/todo.md"`
}

// Validate validates the request.
func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.In(models.KindPlain, models.KindMarkdown, models.KindCode)),
		validation.Field(&r.Name, validation.When(r.Content != "", validation.Required)),
	)
}

// UpdateDocumentRequest replaces the whole content, given either as markup
// or as the HTML of an editable view.
type UpdateDocumentRequest struct {
	Content string  `json:"content" example:"# Updated"`
	HTML    *string `json:"html,omitempty" example:"<h2>Updated</h2>"`
}

// Validate validates the request.
func (r UpdateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HTML, validation.When(r.Content != "",
			validation.Nil.Error("content and html are mutually exclusive"))),
	)
}

// text returns the markup to store.
func (r UpdateDocumentRequest) text() string {
	if r.HTML != nil {
		return markup.FromHTML(*r.HTML)
	}
	return r.Content
}

// RenameRequest renames a document.
type RenameRequest struct {
	Name string `json:"name" example:"renamed.md"`
}

// Validate validates the request.
func (r RenameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// SaveRequest writes a document to the workspace; an empty path uses the name.
type SaveRequest struct {
	Path string `json:"path,omitempty" example:"notes/todo.md"`
}

// FindRequest runs a query over one document.
type FindRequest struct {
	Query string `json:"query" example:"hello"`
	search.Options
}

// ReplaceRequest substitutes every match of Query with Replacement.
type ReplaceRequest struct {
	Query       string `json:"query" example:"colour"`
	Replacement string `json:"replacement" example:"color"`
	search.Options
}

// RangeRequest addresses a byte range of the content.
type RangeRequest struct {
	Start int `json:"start" example:"0"`
	End   int `json:"end" example:"5"`
}

func (r RangeRequest) toRange() editorservice.Range {
	return editorservice.Range{Start: r.Start, End: r.End}
}

// Validate validates the request.
func (r RangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Start, validation.Min(0)),
		validation.Field(&r.End, validation.Min(r.Start+1)),
	)
}

// FormatRequest applies a style to a range.
type FormatRequest struct {
	RangeRequest
	Style markup.Style `json:"style" example:"bold"`
	Color markup.Color `json:"color,omitempty" example:"green"`
}

// CaseRequest converts the case of a range.
type CaseRequest struct {
	RangeRequest
	Mode editorservice.CaseMode `json:"mode" example:"upper"`
}

// Validate validates the request.
func (r CaseRequest) Validate() error {
	if err := r.RangeRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mode, validation.Required,
			validation.In(editorservice.CaseUpper, editorservice.CaseLower, editorservice.CaseTitle)),
	)
}

// InsertRequest inserts a snippet at an offset.
type InsertRequest struct {
	Offset  int                   `json:"offset" example:"0"`
	Snippet editorservice.Snippet `json:"snippet" example:"date"`
}

// Validate validates the request.
func (r InsertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Offset, validation.Min(0)),
		validation.Field(&r.Snippet, validation.Required),
	)
}

// PasteRequest inserts text or a clipboard item at an offset.
type PasteRequest struct {
	Offset int `json:"offset" example:"0"`
	editorservice.PasteSource
}

// CopyRequest pushes text into the clipboard.
type CopyRequest struct {
	Text string `json:"text" example:"snippet"`
}

// LockRequest encrypts a document.
type LockRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// UnlockRequest decrypts a document.
type UnlockRequest struct {
	Password string `json:"password"`
}
