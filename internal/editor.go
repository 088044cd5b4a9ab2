package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/scribe/internal/clipboard"
	"github.com/starford/scribe/internal/document"
	"github.com/starford/scribe/internal/editorservice"
	"github.com/starford/scribe/internal/history"
	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/storage"
)

// editor bundles the components every entry point needs.
type editor struct {
	svc       *editorservice.Service
	catalog   *index.DB
	workspace *storage.FS
}

func (e *editor) Close() error {
	return e.catalog.Close()
}

// newEditor builds the workspace provider, the catalog and the editor service
// from cfg. notifier may be nil.
func newEditor(cfg *Config, logger *slog.Logger, notifier editorservice.Notifier) (*editor, error) {
	if err := os.MkdirAll(cfg.Workspace.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	ws, err := storage.NewFS(cfg.Workspace.Path)
	if err != nil {
		return nil, fmt.Errorf("init workspace: %w", err)
	}

	db, err := index.Open(cfg.Catalog.DSN)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	docs := document.NewStore(
		history.New(history.WithLimit(cfg.Editor.HistoryLimit)),
		document.WithRecentLimit(cfg.Editor.RecentLimit),
	)
	opts := []editorservice.Option{
		editorservice.WithWorkspace(ws),
		editorservice.WithCatalog(db),
		editorservice.WithLogger(logger),
		editorservice.WithDefaultKind(cfg.Editor.DefaultKind),
		editorservice.WithMinPasswordLength(cfg.Editor.MinPasswordLength),
	}
	if notifier != nil {
		opts = append(opts, editorservice.WithNotifier(notifier))
	}
	svc := editorservice.NewService(docs, clipboard.NewRing(cfg.Editor.ClipboardCapacity, time.Now), opts...)

	return &editor{svc: svc, catalog: db, workspace: ws}, nil
}
