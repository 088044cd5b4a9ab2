//go:build sqlite_fts5

package index

import (
	"testing"
	"time"
)

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{ID: "f1", Name: "fts.md", Kind: "markdown", Checksum: "f1", UpdatedAt: time.Now()}
	if err := db.UpsertDocument(row, "Scribe provides powerful search across open documents."); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "f1" || results[0].Kind != "markdown" {
		t.Errorf("result = %+v", results[0])
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_OperatorsAreLiteral(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{ID: "f2", Name: "ops.txt", Kind: "plain", Checksum: "f2", UpdatedAt: time.Now()}
	if err := db.UpsertDocument(row, "alpha beta"); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	if _, err := db.Search(`alpha" OR "`, 10); err != nil {
		t.Fatalf("quoted query should not be a syntax error: %v", err)
	}
}

func TestFTS5_LockedDocumentsHidden(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{ID: "f3", Name: "vault.txt", Kind: "plain", Checksum: "f3", Locked: true, UpdatedAt: time.Now()}
	if err := db.UpsertDocument(row, ""); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	results, err := db.Search("vault", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("locked document surfaced: %+v", results)
	}
}
