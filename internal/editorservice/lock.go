package editorservice

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scribe/internal/apperr"
)

// validatePassword checks a new lock password in the order the user sees
// the errors: missing, mismatched, too short.
func validatePassword(password, confirm string, minLen int) error {
	if err := validation.Validate(password, validation.Required); err != nil {
		return apperr.ErrEmptyPassword
	}
	if password != confirm {
		return apperr.ErrPasswordMismatch
	}
	if err := validation.Validate(password, validation.RuneLength(minLen, 0)); err != nil {
		return fmt.Errorf("%w: at least %d characters", apperr.ErrPasswordTooShort, minLen)
	}
	return nil
}

// Lock encrypts the document content with password. The document exposes a
// placeholder until it is unlocked.
func (s *Service) Lock(_ context.Context, id, password, confirm string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.getUnlocked(id)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password, confirm, s.minPasswordLen); err != nil {
		return nil, err
	}
	cipherText, err := s.cipher.Encrypt(d.Content, password)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	d, ok := s.docs.Lock(d.ID, cipherText)
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, apperr.ErrLocked)
	}
	delete(s.finds, d.ID)
	s.changed(EventLocked, d)
	return s.detail(d), nil
}

// Unlock decrypts the document with password and restores its content.
func (s *Service) Unlock(_ context.Context, id, password string) (*DocumentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !d.Locked() {
		return nil, fmt.Errorf("document %q: %w", d.ID, apperr.ErrNotLocked)
	}
	if err := validation.Validate(password, validation.Required); err != nil {
		return nil, apperr.ErrEmptyPassword
	}
	plain, err := s.cipher.Decrypt(d.Lock.CipherText, password)
	if err != nil {
		return nil, err
	}
	d, _ = s.docs.Unlock(d.ID, plain)
	s.changed(EventUnlocked, d)
	return s.detail(d), nil
}
