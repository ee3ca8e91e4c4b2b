package remote

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/mkrebs/marksync/internal/logging"
)

// WebDAVOptions configures the WebDAV transport.
type WebDAVOptions struct {
	// BaseURL is the WebDAV server URL (e.g. https://dav.example.com/remote.php/dav).
	BaseURL string
	// Username and Password authenticate against the server.
	Username string
	Password string
	// Folder is the remote folder all sync files live under.
	Folder string
	// Timeout bounds each network call. Defaults to 30s.
	Timeout time.Duration
}

// WebDAV implements Transport over a WebDAV server.
type WebDAV struct {
	client *gowebdav.Client
	folder string
}

// NewWebDAV creates a WebDAV transport and ensures the remote folder exists.
func NewWebDAV(opts WebDAVOptions) (*WebDAV, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("webdav base URL is required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	client := gowebdav.NewClient(opts.BaseURL, opts.Username, opts.Password)
	client.SetTimeout(opts.Timeout)

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to webdav server: %w", err)
	}

	folder := opts.Folder
	if folder != "" {
		if err := client.MkdirAll(folder, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create remote folder %s: %w", folder, err)
		}
	}

	logging.Debug("webdav transport ready",
		logging.Path(folder),
	)

	return &WebDAV{client: client, folder: folder}, nil
}

// Exists reports whether the file exists in the remote folder.
func (w *WebDAV) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := w.client.Stat(w.join(name))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat remote file %s: %w", name, err)
	}
	return true, nil
}

// Download returns the content of a remote file.
func (w *WebDAV) Download(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := w.client.Read(w.join(name))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to download remote file %s: %w", name, err)
	}

	logging.Debug("downloaded remote file",
		logging.Path(name),
		logging.Count(len(data)),
	)
	return data, nil
}

// Upload writes a remote file, replacing any existing content.
func (w *WebDAV) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// gowebdav has no per-request header API; calls are sequential per the
	// engine's concurrency contract, so a client-wide header is safe here.
	w.client.SetHeader("Content-Type", contentType)

	if err := w.client.Write(w.join(name), data, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("failed to upload remote file %s: %w", name, err)
	}

	logging.Debug("uploaded remote file",
		logging.Path(name),
		logging.Count(len(data)),
	)
	return nil
}

func (w *WebDAV) join(name string) string {
	if w.folder == "" {
		return name
	}
	return path.Join(w.folder, name)
}
