// Package checksum computes the content digests used as document ETags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// String returns the digest of s.
func String(s string) string {
	return Sum([]byte(s))
}

// Match reports whether ifMatch is empty or equals the digest of s.
// Surrounding ETag quotes are ignored.
func Match(s, ifMatch string) bool {
	if n := len(ifMatch); n >= 2 && ifMatch[0] == '"' && ifMatch[n-1] == '"' {
		ifMatch = ifMatch[1 : n-1]
	}
	return ifMatch == "" || ifMatch == String(s)
}
