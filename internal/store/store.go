// Package store defines the local persistent store the sync engine works
// against, plus a JSON file-backed implementation for CLI use.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mkrebs/marksync/internal/model"
)

// Store is the local side of a sync: the bookmark collection and the three
// config sub-documents. Implementations return full snapshots; the engine
// never holds references into store internals.
type Store interface {
	// Bookmarks returns the full local bookmark collection.
	Bookmarks() ([]model.Bookmark, error)

	// SetBookmarks inserts or updates records by URL.
	SetBookmarks(list []model.Bookmark) error

	// RemoveBookmarks deletes records by URL. Unknown URLs are ignored.
	RemoveBookmarks(urls []string) error

	// Document returns the raw sub-document for a config category
	// (settings, filters or services), or nil if none is stored.
	Document(c model.Category) (json.RawMessage, error)

	// SetDocument overwrites a config sub-document.
	SetDocument(c model.Category, raw json.RawMessage) error

	// MergeDocument imports a remote sub-document without wiping local-only
	// content: for JSON objects, remote keys win and local-only keys
	// survive; any other document shape is replaced wholesale.
	MergeDocument(c model.Category, raw json.RawMessage) error
}

// MergeObjects merges two raw JSON values per MergeDocument semantics.
func MergeObjects(local, remote json.RawMessage) (json.RawMessage, error) {
	if len(local) == 0 {
		return remote, nil
	}
	if len(remote) == 0 {
		return local, nil
	}

	var localObj, remoteObj map[string]json.RawMessage
	if err := json.Unmarshal(local, &localObj); err != nil {
		// Local document is not an object: remote replaces it.
		return remote, nil
	}
	if err := json.Unmarshal(remote, &remoteObj); err != nil {
		return remote, nil
	}

	for key, val := range remoteObj {
		localObj[key] = val
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(localObj); err != nil {
		return nil, fmt.Errorf("failed to merge documents: %w", err)
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
