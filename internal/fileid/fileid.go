// Package fileid derives a stable identity for a document from its path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// FileID returns a deterministic identity for the file at path. The same
// file path always yields the same ID across runs, so stored outcomes for
// repeated processing of one file can be correlated. Relative paths are
// resolved against the working directory first.
func FileID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	hash := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(hash[:])
}

// ContentID returns a deterministic identity for in-memory content, for
// documents that arrive without a filesystem path. The same bytes always
// yield the same ID.
func ContentID(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
