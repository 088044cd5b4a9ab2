// Package apperr defines the sentinel errors shared across the editor layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// Document lock state.
	ErrLocked        = errors.New("document is locked")
	ErrNotLocked     = errors.New("document has no encrypted content")
	ErrWrongPassword = errors.New("wrong password or corrupted data")

	// Recoverable user input errors.
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrEmptyQuery       = errors.New("search query is empty")
	ErrInvalidPattern   = errors.New("invalid search pattern")
	ErrInvalidRange     = errors.New("invalid text range")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidPath      = errors.New("invalid workspace path")

	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)
