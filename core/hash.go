package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// DocumentExtension is appended to the hex hash to build a storage key.
const DocumentExtension = ".pdf"

// HashSize is the length of a hex encoded document hash.
const HashSize = sha256.Size * 2

// HashDocument returns the lowercase hex SHA-256 of data.
func HashDocument(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DocumentKey derives the storage key for hash. It reports false when hash is
// not a lowercase hex SHA-256, in which case nothing can be stored under it.
func DocumentKey(hash string) (string, bool) {
	if !IsHash(hash) {
		return "", false
	}
	return hash + DocumentExtension, true
}

// IsHash reports whether s has the shape of a value returned by HashDocument.
func IsHash(s string) bool {
	if len(s) != HashSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
