// Package hash produces deterministic content fingerprints for sync
// categories. Digests are SHA-256 hex strings; a collision is treated as
// "no change" by callers.
package hash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mkrebs/marksync/internal/model"
)

// Bookmarks returns the content hash of a bookmark collection. Records are
// sorted by URL and stripped of embeddings before serialization, so
// device-specific enumeration order and derived vectors never perturb the
// digest.
func Bookmarks(list []model.Bookmark) (string, error) {
	canonical := make([]model.Bookmark, len(list))
	for i, b := range list {
		canonical[i] = b.WithoutEmbedding()
	}
	model.SortBookmarks(canonical)

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to serialize bookmarks for hashing: %w", err)
	}
	return digest(data), nil
}

// Document returns the content hash of a single config sub-document. The
// raw JSON is compacted first so formatting differences between devices do
// not perturb the digest.
func Document(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fmt.Errorf("failed to canonicalize document for hashing: %w", err)
	}
	return digest(buf.Bytes()), nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
