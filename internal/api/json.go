package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scribe/internal/apperr"
)

const maxBodyBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// decodeJSON reads the request body into v and runs its Validate method when
// it has one. It writes a 400 and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if vv, ok := v.(validation.Validatable); ok {
		if err := vv.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return false
		}
	}
	return true
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, apperr.ErrWrongPassword):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrAlreadyExists),
		errors.Is(err, apperr.ErrNotLocked),
		errors.Is(err, apperr.ErrNothingToUndo),
		errors.Is(err, apperr.ErrNothingToRedo):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrEmptyPassword),
		errors.Is(err, apperr.ErrPasswordMismatch),
		errors.Is(err, apperr.ErrPasswordTooShort),
		errors.Is(err, apperr.ErrEmptyQuery),
		errors.Is(err, apperr.ErrInvalidPattern),
		errors.Is(err, apperr.ErrInvalidRange),
		errors.Is(err, apperr.ErrInvalidArgument),
		errors.Is(err, apperr.ErrInvalidPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with its mapped status. Server errors are logged and
// hidden from the client.
func writeError(w http.ResponseWriter, op string, err error, attrs ...slog.Attr) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		args := []any{slog.String("error", err.Error())}
		for _, a := range attrs {
			args = append(args, a)
		}
		slog.Error(op+" failed", args...)
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}
