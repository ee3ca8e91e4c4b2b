package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkrebs/marksync/internal/model"
)

// fileVersion is the current version of the store file format.
const fileVersion = "1.0"

// fileState is the on-disk shape of the local store.
type fileState struct {
	Version   string           `json:"version"`
	Bookmarks []model.Bookmark `json:"bookmarks"`
	Settings  json.RawMessage  `json:"settings,omitempty"`
	Filters   json.RawMessage  `json:"filters,omitempty"`
	Services  json.RawMessage  `json:"services,omitempty"`
}

// File is a Store backed by a single JSON file. Every mutation is persisted
// immediately. It is not safe for concurrent use; the engine's caller is
// responsible for running at most one sync at a time.
type File struct {
	path  string
	state fileState
}

// NewFile creates or loads a file-backed store at the given path.
func NewFile(path string) (*File, error) {
	f := &File{
		path: path,
		state: fileState{
			Version:   fileVersion,
			Bookmarks: []model.Bookmark{},
		},
	}

	// #nosec G304 - path comes from the user's own configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if err := json.Unmarshal(data, &f.state); err != nil {
		return nil, fmt.Errorf("store file %s is corrupt: %w", path, err)
	}
	if f.state.Bookmarks == nil {
		f.state.Bookmarks = []model.Bookmark{}
	}
	f.state.Version = fileVersion

	// Re-canonicalize the sub-documents: save() indents the whole file,
	// which re-indents embedded raw JSON.
	for _, doc := range []*json.RawMessage{&f.state.Settings, &f.state.Filters, &f.state.Services} {
		compacted, err := compactDocument(*doc)
		if err != nil {
			return nil, fmt.Errorf("store file %s is corrupt: %w", path, err)
		}
		*doc = compacted
	}
	return f, nil
}

// Bookmarks returns a copy of the local bookmark collection.
func (f *File) Bookmarks() ([]model.Bookmark, error) {
	out := make([]model.Bookmark, len(f.state.Bookmarks))
	copy(out, f.state.Bookmarks)
	return out, nil
}

// SetBookmarks inserts or updates records by URL.
func (f *File) SetBookmarks(list []model.Bookmark) error {
	index := make(map[string]int, len(f.state.Bookmarks))
	for i, b := range f.state.Bookmarks {
		index[b.URL] = i
	}

	for _, b := range list {
		if i, ok := index[b.URL]; ok {
			f.state.Bookmarks[i] = b
		} else {
			index[b.URL] = len(f.state.Bookmarks)
			f.state.Bookmarks = append(f.state.Bookmarks, b)
		}
	}
	return f.save()
}

// RemoveBookmarks deletes records by URL.
func (f *File) RemoveBookmarks(urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	drop := make(map[string]bool, len(urls))
	for _, u := range urls {
		drop[u] = true
	}

	kept := f.state.Bookmarks[:0]
	for _, b := range f.state.Bookmarks {
		if !drop[b.URL] {
			kept = append(kept, b)
		}
	}
	f.state.Bookmarks = kept
	return f.save()
}

// Document returns the raw sub-document for a config category.
func (f *File) Document(c model.Category) (json.RawMessage, error) {
	switch c {
	case model.CategorySettings:
		return f.state.Settings, nil
	case model.CategoryFilters:
		return f.state.Filters, nil
	case model.CategoryServices:
		return f.state.Services, nil
	}
	return nil, fmt.Errorf("unknown config category: %s", c)
}

// SetDocument overwrites a config sub-document. The document is stored in
// compact form so the bytes returned by Document are stable across reloads.
func (f *File) SetDocument(c model.Category, raw json.RawMessage) error {
	doc, err := compactDocument(raw)
	if err != nil {
		return fmt.Errorf("invalid %s document: %w", c, err)
	}
	switch c {
	case model.CategorySettings:
		f.state.Settings = doc
	case model.CategoryFilters:
		f.state.Filters = doc
	case model.CategoryServices:
		f.state.Services = doc
	default:
		return fmt.Errorf("unknown config category: %s", c)
	}
	return f.save()
}

// compactDocument strips insignificant whitespace from a raw JSON document.
func compactDocument(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// MergeDocument imports a remote sub-document, keeping local-only keys.
func (f *File) MergeDocument(c model.Category, raw json.RawMessage) error {
	local, err := f.Document(c)
	if err != nil {
		return err
	}
	merged, err := MergeObjects(local, raw)
	if err != nil {
		return err
	}
	return f.SetDocument(c, merged)
}

// save persists the store state to disk.
func (f *File) save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	// #nosec G306 - store file should be readable by the user
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
