// Package remote provides access to the remote sync folder. A Transport
// moves raw bytes; the Store layers the three well-known sync files on top
// of it.
package remote

import (
	"context"
	"errors"
)

// Well-known file names inside the configured remote folder.
const (
	// MetaFile holds the sync metadata as uncompressed JSON.
	MetaFile = "meta.json"

	// DataFile holds the gzip-compressed bookmark payload.
	DataFile = "data.json.gz"

	// ConfigFile holds the configuration bundle as uncompressed JSON.
	ConfigFile = "config.json"
)

// Content types sent with uploads.
const (
	ContentTypeJSON = "application/json"
	ContentTypeGzip = "application/gzip"
)

// ErrNotFound indicates the requested remote file does not exist.
var ErrNotFound = errors.New("remote file not found")

// Transport moves raw file content to and from the remote folder. Paths are
// relative to the folder. Implementations are not required to be safe for
// concurrent use: the engine issues calls strictly sequentially.
type Transport interface {
	// Exists reports whether the file exists in the remote folder.
	Exists(ctx context.Context, path string) (bool, error)

	// Download returns the file content. Returns ErrNotFound if the file
	// does not exist.
	Download(ctx context.Context, path string) ([]byte, error)

	// Upload writes the file content, replacing any existing file.
	Upload(ctx context.Context, path string, data []byte, contentType string) error
}
