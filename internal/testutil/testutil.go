// Package testutil provides shared test helpers for setting up workspaces
// and catalogs.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/storage"
)

// TestCatalog opens a file-backed SQLite catalog in a temp dir that is closed
// when the test ends.
func TestCatalog(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestWorkspace creates a temporary workspace directory with its provider.
func TestWorkspace(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	ws, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("storage.NewFS: %v", err)
	}
	return dir, ws
}
