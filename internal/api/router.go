package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scribe/internal/editorservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *editorservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/documents", h.ListDocuments)
	r.Post("/documents", h.CreateDocument)
	r.Route("/documents/{id}", func(r chi.Router) {
		r.Get("/", h.GetDocument)
		r.Put("/", h.UpdateDocument)
		r.Delete("/", h.DeleteDocument)

		r.Post("/duplicate", h.DuplicateDocument)
		r.Post("/rename", h.RenameDocument)
		r.Post("/select", h.SelectDocument)
		r.Post("/save", h.SaveDocument)

		// History.
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Get("/history", h.History)
		r.Post("/history/{index}", h.RestoreHistory)

		// Find and replace.
		r.Post("/find", h.Find)
		r.Post("/find/next", h.FindNext)
		r.Post("/replace", h.Replace)

		// Editing commands.
		r.Post("/format", h.Format)
		r.Post("/clear", h.ClearFormatting)
		r.Post("/case", h.ConvertCase)
		r.Post("/insert", h.Insert)
		r.Post("/cut", h.Cut)
		r.Post("/copy", h.CopyRange)
		r.Post("/paste", h.Paste)

		// Lock.
		r.Post("/lock", h.Lock)
		r.Post("/unlock", h.Unlock)

		// Projections.
		r.Get("/export", h.Export)
		r.Get("/stats", h.Stats)
		r.Get("/render", h.Render)
	})

	r.Get("/clipboard", h.Clipboard)
	r.Post("/clipboard", h.CopyText)
	r.Delete("/clipboard", h.ClearClipboard)

	r.Get("/snippets", h.Snippets)
	r.Get("/workspace", h.Workspace)
	r.Get("/files", h.Files)
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
