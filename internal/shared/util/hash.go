package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a stable, non-reversible identifier suitable for logs.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortHash is the first 12 hex characters of HashKey, or "" for empty input.
func ShortHash(s string) string {
	if s == "" {
		return ""
	}
	return HashKey(s)[:12]
}
