package index

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/scribe/internal/checksum"
	"github.com/starford/scribe/internal/storage"
)

// Sync walks the workspace and brings the file catalog up to date:
//   - new or changed files are recorded
//   - files removed from disk are forgotten
func Sync(db Catalog, store storage.Provider, logger *slog.Logger) error {
	files, err := store.List("")
	if err != nil {
		return err
	}

	known, err := db.AllFileChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(files))
	for _, f := range files {
		disk[f.Path] = struct{}{}
		if known[f.Path] == f.Checksum {
			continue
		}
		if err := db.UpsertFile(FileRow(f)); err != nil {
			logger.Warn("sync: record failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: recorded", slog.String("path", f.Path))
	}

	for p := range known {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteFile(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: removed stale", slog.String("path", p))
		}
	}
	return nil
}

// recordFile reads path from the workspace and upserts it into the catalog.
func recordFile(db Catalog, store storage.Provider, path string) error {
	data, err := store.Read(path)
	if err != nil {
		return err
	}
	return db.UpsertFile(FileRow{
		Path:      path,
		Checksum:  checksum.Sum(data),
		Size:      int64(len(data)),
		UpdatedAt: time.Now(),
	})
}

// hidden reports whether any element of rel starts with a dot. Temp files
// from atomic writes fall in this category.
func hidden(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return false
}
