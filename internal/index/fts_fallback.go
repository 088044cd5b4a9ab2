//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// Without FTS5 there is no shadow table; documents.body is searched directly.
func initFTS(_ *sql.DB) error { return nil }

func ftsUpsert(_ *sql.Tx, _, _, _ string) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches query as a literal substring of unlocked document names
// and text, most recently changed first.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT id, name, kind, substr(body, 1, 200)
		FROM documents
		WHERE locked = 0
		  AND (name LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\')
		ORDER BY updated_at DESC
		LIMIT ?
	`, like, like, searchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
