// Package cipher provides the reversible, password-keyed text transform used
// to lock documents. It is an obfuscation, not encryption.
package cipher

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/starford/scribe/internal/apperr"
)

// Cipher transforms text under a password.
type Cipher interface {
	Encrypt(plainText, password string) (string, error)
	// Decrypt returns apperr.ErrWrongPassword when the cipher text cannot be
	// decoded under password. A wrong password may also yield garbage text.
	Decrypt(cipherText, password string) (string, error)
}

// XOR base64-encodes the text, XORs the encoding with the password bytes and
// base64-encodes the result.
type XOR struct{}

var _ Cipher = XOR{}

// Encrypt implements Cipher.
func (XOR) Encrypt(plainText, password string) (string, error) {
	if password == "" {
		return "", apperr.ErrEmptyPassword
	}
	inner := []byte(base64.StdEncoding.EncodeToString([]byte(plainText)))
	return base64.StdEncoding.EncodeToString(xor(inner, password)), nil
}

// Decrypt implements Cipher.
func (XOR) Decrypt(cipherText, password string) (string, error) {
	if password == "" {
		return "", apperr.ErrEmptyPassword
	}
	outer, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return "", apperr.ErrWrongPassword
	}
	plain, err := base64.StdEncoding.DecodeString(string(xor(outer, password)))
	if err != nil || !utf8.Valid(plain) {
		return "", apperr.ErrWrongPassword
	}
	return string(plain), nil
}

func xor(data []byte, password string) []byte {
	key := []byte(password)
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}
