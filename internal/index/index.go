package index

// Catalog is what the editor service and the watcher need from the index.
type Catalog interface {
	UpsertDocument(d DocumentRow, body string) error
	DeleteDocument(id string) error
	GetChecksum(id string) (string, error)
	Search(query string, limit int) ([]SearchResult, error)

	UpsertFile(f FileRow) error
	DeleteFile(path string) error
	ListFiles() ([]FileRow, error)
	AllFileChecksums() (map[string]string, error)

	Close() error
}

var _ Catalog = (*DB)(nil)
