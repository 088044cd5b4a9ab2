package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scribe/internal/editorservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *editorservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *editorservice.Service) *Handler {
	return &Handler{svc: svc}
}

func docID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// writeDocument writes d with its checksum as the ETag.
func writeDocument(w http.ResponseWriter, status int, d *DocumentDetail) {
	w.Header().Set("ETag", `"`+d.Checksum+`"`)
	writeJSON(w, status, d)
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List open documents in creation order
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	items := h.svc.List(r.Context())
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items, Total: len(items)})
}

// CreateDocument handles POST /api/documents.
//
//	@Summary		Create an empty document, open content, or open a workspace file
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateDocumentRequest	true	"Document to open"
//	@Success		201		{object}	DocumentDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [post]
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		d   *DocumentDetail
		err error
	)
	switch {
	case req.Path != "":
		d, err = h.svc.OpenFile(r.Context(), req.Path)
	case req.Name != "":
		d, err = h.svc.Open(r.Context(), req.Name, req.Content)
	default:
		d, err = h.svc.New(r.Context(), req.Kind)
	}
	if err != nil {
		writeError(w, "create document", err, slog.String("path", req.Path))
		return
	}
	writeDocument(w, http.StatusCreated, d)
}

// GetDocument handles GET /api/documents/{id}.
//
//	@Summary		Get a document by id
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document id"
//	@Success		200	{object}	DocumentDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), docID(r))
	if err != nil {
		writeError(w, "get document", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// UpdateDocument handles PUT /api/documents/{id}.
//
//	@Summary		Replace document content with optimistic concurrency
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string					true	"Document id"
//	@Param			If-Match	header		string					false	"Checksum of the content being replaced"
//	@Param			body		body		UpdateDocumentRequest	true	"New content"
//	@Success		200			{object}	DocumentDetail
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Failure		423			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [put]
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req UpdateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Edit(r.Context(), docID(r), req.text(), r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, "update document", err, slog.String("id", docID(r)))
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// DeleteDocument handles DELETE /api/documents/{id}.
//
//	@Summary		Close a document and drop its history
//	@Tags			documents
//	@Param			id	path	string	true	"Document id"
//	@Success		204	"Document closed"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), docID(r)); err != nil {
		writeError(w, "delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateDocument handles POST /api/documents/{id}/duplicate.
func (h *Handler) DuplicateDocument(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Duplicate(r.Context(), docID(r))
	if err != nil {
		writeError(w, "duplicate document", err)
		return
	}
	writeDocument(w, http.StatusCreated, d)
}

// RenameDocument handles POST /api/documents/{id}/rename.
func (h *Handler) RenameDocument(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Rename(r.Context(), docID(r), req.Name)
	if err != nil {
		writeError(w, "rename document", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// SelectDocument handles POST /api/documents/{id}/select.
func (h *Handler) SelectDocument(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Select(r.Context(), docID(r))
	if err != nil {
		writeError(w, "select document", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// SaveDocument handles POST /api/documents/{id}/save.
//
//	@Summary		Write a document to the workspace
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Document id"
//	@Param			body	body		SaveRequest	false	"Target path"
//	@Success		200		{object}	storage.FileInfo
//	@Failure		400		{object}	errResponse
//	@Failure		423		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/save [post]
func (h *Handler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	info, err := h.svc.Save(r.Context(), docID(r), req.Path)
	if err != nil {
		writeError(w, "save document", err, slog.String("path", req.Path))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Undo handles POST /api/documents/{id}/undo.
//
//	@Summary		Step one entry back in the document history
//	@Tags			history
//	@Produce		json
//	@Param			id	path		string	true	"Document id"
//	@Success		200	{object}	DocumentDetail
//	@Failure		409	{object}	errResponse	"Nothing to undo"
//	@Security		BearerAuth
//	@Router			/documents/{id}/undo [post]
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Undo(r.Context(), docID(r))
	if err != nil {
		writeError(w, "undo", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// Redo handles POST /api/documents/{id}/redo.
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Redo(r.Context(), docID(r))
	if err != nil {
		writeError(w, "redo", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// History handles GET /api/documents/{id}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.History(r.Context(), docID(r))
	if err != nil {
		writeError(w, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// RestoreHistory handles POST /api/documents/{id}/history/{index}.
func (h *Handler) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("index must be an integer"))
		return
	}
	d, err := h.svc.RestoreHistory(r.Context(), docID(r), idx)
	if err != nil {
		writeError(w, "restore history", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// Workspace handles GET /api/workspace.
func (h *Handler) Workspace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Workspace(r.Context()))
}

// Files handles GET /api/files.
//
//	@Summary		List workspace files known to the catalog
//	@Tags			workspace
//	@Produce		json
//	@Success		200	{array}	index.FileRow
//	@Security		BearerAuth
//	@Router			/files [get]
func (h *Handler) Files(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.Files(r.Context())
	if err != nil {
		writeError(w, "list files", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// Search handles GET /api/search.
//
//	@Summary		Search across open documents
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchAll(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
