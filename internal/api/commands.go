package api

import (
	"mime"
	"net/http"

	"github.com/starford/scribe/internal/editorservice"
	"github.com/starford/scribe/internal/export"
)

// Find handles POST /api/documents/{id}/find.
//
// A malformed or empty query is not an HTTP error: the result carries zero
// matches and an error message.
//
//	@Summary		Find matches of a query in a document
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Document id"
//	@Param			body	body		FindRequest	true	"Query and options"
//	@Success		200		{object}	editorservice.FindResult
//	@Security		BearerAuth
//	@Router			/documents/{id}/find [post]
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	var req FindRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Find(r.Context(), docID(r), req.Query, req.Options)
	if err != nil {
		writeError(w, "find", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FindNext handles POST /api/documents/{id}/find/next.
func (h *Handler) FindNext(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.FindNext(r.Context(), docID(r))
	if err != nil {
		writeError(w, "find next", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Replace handles POST /api/documents/{id}/replace.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ReplaceAll(r.Context(), docID(r), req.Query, req.Replacement, req.Options)
	if err != nil {
		writeError(w, "replace", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Format handles POST /api/documents/{id}/format.
//
//	@Summary		Wrap a range in formatting markup
//	@Tags			editing
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Document id"
//	@Param			body	body		FormatRequest	true	"Range, style and highlight color"
//	@Success		200		{object}	DocumentDetail
//	@Failure		400		{object}	errResponse
//	@Failure		423		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/format [post]
func (h *Handler) Format(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Format(r.Context(), docID(r), req.toRange(), req.Style, req.Color)
	if err != nil {
		writeError(w, "format", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// ClearFormatting handles POST /api/documents/{id}/clear.
func (h *Handler) ClearFormatting(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.ClearFormatting(r.Context(), docID(r), req.toRange())
	if err != nil {
		writeError(w, "clear formatting", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// ConvertCase handles POST /api/documents/{id}/case.
func (h *Handler) ConvertCase(w http.ResponseWriter, r *http.Request) {
	var req CaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.ConvertCase(r.Context(), docID(r), req.toRange(), req.Mode)
	if err != nil {
		writeError(w, "convert case", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// Insert handles POST /api/documents/{id}/insert.
func (h *Handler) Insert(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Insert(r.Context(), docID(r), req.Offset, req.Snippet)
	if err != nil {
		writeError(w, "insert", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// Snippets handles GET /api/snippets.
func (h *Handler) Snippets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"snippets": editorservice.Snippets})
}

// Cut handles POST /api/documents/{id}/cut.
func (h *Handler) Cut(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Cut(r.Context(), docID(r), req.toRange())
	if err != nil {
		writeError(w, "cut", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// CopyRange handles POST /api/documents/{id}/copy. A blank selection
// answers 204.
func (h *Handler) CopyRange(w http.ResponseWriter, r *http.Request) {
	var req RangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.CopyRange(r.Context(), docID(r), req.toRange())
	if err != nil {
		writeError(w, "copy", err)
		return
	}
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Paste handles POST /api/documents/{id}/paste.
//
//	@Summary		Insert text or a clipboard item at an offset
//	@Tags			clipboard
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Document id"
//	@Param			body	body		PasteRequest	true	"Offset and source"
//	@Success		200		{object}	DocumentDetail
//	@Failure		404		{object}	errResponse	"Clipboard item not found or clipboard empty"
//	@Security		BearerAuth
//	@Router			/documents/{id}/paste [post]
func (h *Handler) Paste(w http.ResponseWriter, r *http.Request) {
	var req PasteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Paste(r.Context(), docID(r), req.Offset, req.PasteSource)
	if err != nil {
		writeError(w, "paste", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// Clipboard handles GET /api/clipboard.
func (h *Handler) Clipboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": h.svc.ClipboardItems(r.Context())})
}

// CopyText handles POST /api/clipboard. Blank text answers 204.
func (h *Handler) CopyText(w http.ResponseWriter, r *http.Request) {
	var req CopyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item := h.svc.Copy(r.Context(), req.Text)
	if item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// ClearClipboard handles DELETE /api/clipboard.
func (h *Handler) ClearClipboard(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearClipboard(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Lock handles POST /api/documents/{id}/lock.
//
//	@Summary		Encrypt a document with a password
//	@Tags			lock
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Document id"
//	@Param			body	body		LockRequest	true	"Password and confirmation"
//	@Success		200		{object}	DocumentDetail
//	@Failure		400		{object}	errResponse	"Empty, mismatched or short password"
//	@Failure		423		{object}	errResponse	"Already locked"
//	@Security		BearerAuth
//	@Router			/documents/{id}/lock [post]
func (h *Handler) Lock(w http.ResponseWriter, r *http.Request) {
	var req LockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Lock(r.Context(), docID(r), req.Password, req.Confirm)
	if err != nil {
		writeError(w, "lock", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// Unlock handles POST /api/documents/{id}/unlock.
func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.svc.Unlock(r.Context(), docID(r), req.Password)
	if err != nil {
		writeError(w, "unlock", err)
		return
	}
	writeDocument(w, http.StatusOK, d)
}

// Export handles GET /api/documents/{id}/export?format=txt|md|html|print.
//
//	@Summary		Export a document
//	@Tags			export
//	@Produce		plain,html
//	@Param			id		path	string	true	"Document id"
//	@Param			format	query	string	false	"Export format"	Enums(txt, md, html, print)
//	@Success		200		{string}	string
//	@Failure		400		{object}	errResponse
//	@Failure		423		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatText
	}
	res, err := h.svc.Export(r.Context(), docID(r), format)
	if err != nil {
		writeError(w, "export", err)
		return
	}
	disposition := "attachment"
	if format == export.FormatPrint {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", res.MediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": res.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.Body))
}

// Stats handles GET /api/documents/{id}/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context(), docID(r))
	if err != nil {
		writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Render handles GET /api/documents/{id}/render.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Render(r.Context(), docID(r))
	if err != nil {
		writeError(w, "render", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
