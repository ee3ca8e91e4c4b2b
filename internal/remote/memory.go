package remote

import (
	"context"
	"fmt"
)

// Memory is an in-memory Transport used by tests and offline experiments.
// Error fields allow fault injection per operation.
type Memory struct {
	files        map[string][]byte
	contentTypes map[string]string

	// ExistsErr, DownloadErr and UploadErr, when set, are returned by the
	// corresponding operation.
	ExistsErr   error
	DownloadErr error
	UploadErr   error

	// Downloads and Uploads count successful operations.
	Downloads int
	Uploads   int
}

// NewMemory creates an empty in-memory transport.
func NewMemory() *Memory {
	return &Memory{
		files:        make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// Exists reports whether the file has been stored.
func (m *Memory) Exists(_ context.Context, path string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.files[path]
	return ok, nil
}

// Download returns the stored content, or ErrNotFound.
func (m *Memory) Download(_ context.Context, path string) ([]byte, error) {
	if m.DownloadErr != nil {
		return nil, m.DownloadErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	m.Downloads++
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Upload stores the content.
func (m *Memory) Upload(_ context.Context, path string, data []byte, contentType string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[path] = stored
	m.contentTypes[path] = contentType
	m.Uploads++
	return nil
}

// Put seeds a file directly, bypassing the Upload counters.
func (m *Memory) Put(path string, data []byte) {
	m.files[path] = data
}

// Get returns a stored file and whether it exists.
func (m *Memory) Get(path string) ([]byte, bool) {
	data, ok := m.files[path]
	return data, ok
}

// ContentType returns the content type recorded for the last upload of path.
func (m *Memory) ContentType(path string) string {
	return m.contentTypes[path]
}

// Delete removes a stored file.
func (m *Memory) Delete(path string) {
	delete(m.files, path)
	delete(m.contentTypes, path)
}
