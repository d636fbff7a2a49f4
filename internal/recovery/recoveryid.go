package recovery

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// DeriveID returns the stable recovery id for a file-backed buffer: the
// first 16 hex characters of SHA-256(path), per §3's "Recovery id"
// glossary entry.
func DeriveID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:16]
}

// NewSessionID generates a recovery id for an unnamed buffer (one with
// no backing file), stored in the buffer's own metadata for the rest of
// the session rather than rederived from a path.
func NewSessionID() string {
	return uuid.NewString()
}
