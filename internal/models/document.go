// Package models defines the domain types for Scribe.
package models

import (
	"path/filepath"
	"strings"
	"time"
)

// LockedPlaceholder is the content a locked document exposes in place of its text.
const LockedPlaceholder = "[Encrypted Content]"

// Kind classifies a document for presentation and default naming.
type Kind string

const (
	KindPlain    Kind = "plain"
	KindMarkdown Kind = "markdown"
	KindCode     Kind = "code"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPlain, KindMarkdown, KindCode:
		return true
	}
	return false
}

// Extension returns the file extension used when naming a new document.
func (k Kind) Extension() string {
	if k == KindMarkdown {
		return "md"
	}
	return "txt"
}

// KindFromName derives a kind from a file name: .md is markdown, .txt is
// plain, everything else is code.
func KindFromName(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md":
		return KindMarkdown
	case ".txt":
		return KindPlain
	default:
		return KindCode
	}
}

// Lock holds the cipher text of a locked document.
type Lock struct {
	CipherText string `json:"-"`
}

// Document is one open document.
//
// When Lock is non-nil, Content holds LockedPlaceholder and the real text
// exists only as Lock.CipherText.
type Document struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Content      string    `json:"content"`
	Kind         Kind      `json:"kind"`
	LastModified time.Time `json:"last_modified"`
	Lock         *Lock     `json:"-"`
}

// Locked reports whether the document is in the locked state.
func (d *Document) Locked() bool {
	return d.Lock != nil
}

// Clone returns a copy that shares no mutable state with d.
func (d *Document) Clone() *Document {
	c := *d
	if d.Lock != nil {
		l := *d.Lock
		c.Lock = &l
	}
	return &c
}

// HistoryEntry is one immutable snapshot in a document's undo history.
type HistoryEntry struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ClipboardItem is one entry in the clipboard ring.
type ClipboardItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
