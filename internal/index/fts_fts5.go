//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			id UNINDEXED,
			name,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

// ftsUpsert replaces the shadow row; an empty body (locked document) only
// clears it.
func ftsUpsert(tx *sql.Tx, id, name, body string) error {
	if err := ftsDelete(tx, id); err != nil {
		return err
	}
	if body == "" {
		return nil
	}
	if _, err := tx.Exec(`INSERT INTO documents_fts (id, name, body) VALUES (?, ?, ?)`, id, name, body); err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) error {
	if _, err := tx.Exec(`DELETE FROM documents_fts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	return nil
}

// phrase quotes the user query so FTS5 operators in it are taken literally.
func phrase(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}

// Search runs an FTS5 phrase query over unlocked documents and returns hits
// with highlighted snippets, best match first.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	rows, err := db.conn.Query(`
		SELECT f.id,
		       f.name,
		       d.kind,
		       snippet(documents_fts, 2, '**', '**', '...', 32)
		FROM documents_fts f
		JOIN documents d ON d.id = f.id
		WHERE documents_fts MATCH ? AND d.locked = 0
		ORDER BY rank
		LIMIT ?
	`, phrase(query), searchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
