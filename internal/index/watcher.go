package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/scribe/internal/storage"
)

// File event kinds passed to EventCallback.
const (
	FileCreated = "created"
	FileUpdated = "updated"
	FileDeleted = "deleted"
)

// EventCallback is called after a watcher-driven catalog change.
type EventCallback func(kind string, path string)

const reconcileDelay = 200 * time.Millisecond

// Watch keeps the file catalog in step with the workspace directory until ctx
// is cancelled, calling cb (if non-nil) after each successful change.
//
// Directories created at runtime are added to the watch list. Renames delete
// the old entry and schedule a reconciliation pass that picks up the new path.
func Watch(ctx context.Context, db Catalog, store storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", root))

	notify := func(kind, path string) {
		if cb != nil {
			cb(kind, path)
		}
	}

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time
	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil || hidden(rel) {
				continue
			}
			rel = filepath.ToSlash(rel)

			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				info, statErr := os.Stat(ev.Name)
				if statErr != nil {
					continue
				}
				if info.IsDir() {
					if ev.Op&fsnotify.Create != 0 {
						if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
							logger.Warn("watcher: add new dir failed", slog.String("path", rel), slog.String("error", addErr.Error()))
						}
						recordNewDir(db, store, root, ev.Name, logger, notify)
					}
					continue
				}
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := recordFile(db, store, rel); err != nil {
					logger.Warn("watcher: record failed", slog.String("path", rel), slog.String("error", err.Error()))
					continue
				}
				kind := FileUpdated
				if ev.Op&fsnotify.Create != 0 {
					kind = FileCreated
				}
				logger.Debug("watcher: recorded", slog.String("path", rel), slog.String("op", kind))
				notify(kind, rel)

			case ev.Op&fsnotify.Remove != 0:
				if err := db.DeleteFile(rel); err != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
					continue
				}
				notify(FileDeleted, rel)

			case ev.Op&fsnotify.Rename != 0:
				// The new name arrives as a separate Create when it stays
				// inside a watched directory.
				if err := db.DeleteFile(rel); err != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", err.Error()))
				} else {
					notify(FileDeleted, rel)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile drops catalog entries whose file is gone and records files the
// catalog does not know about yet.
func reconcile(db Catalog, store storage.Provider, logger *slog.Logger, notify func(kind, path string)) {
	known, err := db.AllFileChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	files, err := store.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]storage.FileInfo, len(files))
	for _, f := range files {
		disk[f.Path] = f
	}

	for p := range known {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteFile(p); err == nil {
			notify(FileDeleted, p)
		}
	}
	for p, f := range disk {
		cs, ok := known[p]
		if cs == f.Checksum {
			continue
		}
		if err := db.UpsertFile(FileRow(f)); err != nil {
			continue
		}
		if ok {
			notify(FileUpdated, p)
		} else {
			notify(FileCreated, p)
		}
	}
}

// recordNewDir records every visible file already present in a new directory.
func recordNewDir(db Catalog, store storage.Provider, root, dir string, logger *slog.Logger, notify func(kind, path string)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || hidden(rel) {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if err := recordFile(db, store, rel); err == nil {
			logger.Debug("watcher: recorded from new dir", slog.String("path", rel))
			notify(FileCreated, rel)
		}
		return nil
	})
}

// addDirsRecursive adds root and all its visible subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
