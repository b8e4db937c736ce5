package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the content address of a DOT document: its hex SHA-256.
// Serialization is deterministic, so identical diagrams share an address.
func Hash(dot []byte) string {
	sum := sha256.Sum256(dot)
	return hex.EncodeToString(sum[:])
}

// artifactDigest combines a DOT address with the format and backend that
// render it. Fields are NUL-terminated, so ("ab", "c") and ("a", "bc")
// never collide.
func artifactDigest(dotHash, format, backend string) string {
	h := sha256.New()
	for _, field := range []string{dotHash, format, backend} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
