package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mkrebs/marksync/internal/codec"
	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/model"
)

// ErrNoData indicates a category has no usable remote data: the file is
// missing or its content could not be decoded. Callers respond by falling
// back to a bootstrap upload rather than failing the sync.
var ErrNoData = errors.New("remote has no usable data")

// Store provides typed read/write access to the three sync files in the
// remote folder. There is no multi-file transaction: metadata and payload
// are written as two sequential calls, and a crash between them can leave
// the pair mismatched. The next sync recomputes local hashes fresh and
// recovers from this.
type Store struct {
	transport Transport
}

// NewStore creates a Store over the given transport.
func NewStore(transport Transport) *Store {
	return &Store{transport: transport}
}

// ReadMetadata returns the remote sync metadata, or nil when the remote
// folder has no metadata yet (bootstrap). A metadata file that exists but
// cannot be parsed is treated the same as a missing one.
func (s *Store) ReadMetadata(ctx context.Context) (*model.SyncMetadata, error) {
	exists, err := s.transport.Exists(ctx, MetaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to check remote metadata: %w", err)
	}
	if !exists {
		logging.Debug("remote metadata missing, treating as bootstrap")
		return nil, nil
	}

	data, err := s.transport.Download(ctx, MetaFile)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to download remote metadata: %w", err)
	}

	var meta model.SyncMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		logging.Warn("remote metadata is corrupt, treating as missing",
			logging.Path(MetaFile),
			logging.Err(err),
		)
		return nil, nil
	}
	return &meta, nil
}

// WriteMetadata uploads the sync metadata.
func (s *Store) WriteMetadata(ctx context.Context, meta *model.SyncMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to serialize sync metadata: %w", err)
	}
	if err := s.transport.Upload(ctx, MetaFile, data, ContentTypeJSON); err != nil {
		return fmt.Errorf("failed to write remote metadata: %w", err)
	}
	return nil
}

// ReadBookmarks downloads and decodes the bookmark payload. Returns
// ErrNoData when the payload is missing or corrupt.
func (s *Store) ReadBookmarks(ctx context.Context) ([]model.Bookmark, error) {
	exists, err := s.transport.Exists(ctx, DataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to check remote payload: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s missing", ErrNoData, DataFile)
	}

	data, err := s.transport.Download(ctx, DataFile)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s missing", ErrNoData, DataFile)
		}
		return nil, fmt.Errorf("failed to download remote payload: %w", err)
	}

	list, err := codec.Decode(data)
	if err != nil {
		var decodeErr *codec.DecodeError
		if errors.As(err, &decodeErr) {
			logging.Warn("remote payload is corrupt, treating as missing",
				logging.Path(DataFile),
				logging.Err(err),
			)
			return nil, fmt.Errorf("%w: %v", ErrNoData, err)
		}
		return nil, err
	}
	return list, nil
}

// WriteBookmarks encodes and uploads the bookmark payload.
func (s *Store) WriteBookmarks(ctx context.Context, list []model.Bookmark) error {
	data, err := codec.Encode(list)
	if err != nil {
		return err
	}
	if err := s.transport.Upload(ctx, DataFile, data, ContentTypeGzip); err != nil {
		return fmt.Errorf("failed to write remote payload: %w", err)
	}
	return nil
}

// ReadConfig downloads the configuration bundle. Returns ErrNoData when the
// bundle is missing or corrupt.
func (s *Store) ReadConfig(ctx context.Context) (*model.ConfigBundle, error) {
	exists, err := s.transport.Exists(ctx, ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to check remote config: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s missing", ErrNoData, ConfigFile)
	}

	data, err := s.transport.Download(ctx, ConfigFile)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s missing", ErrNoData, ConfigFile)
		}
		return nil, fmt.Errorf("failed to download remote config: %w", err)
	}

	var bundle model.ConfigBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		logging.Warn("remote config is corrupt, treating as missing",
			logging.Path(ConfigFile),
			logging.Err(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	return &bundle, nil
}

// WriteConfig uploads the configuration bundle.
func (s *Store) WriteConfig(ctx context.Context, bundle *model.ConfigBundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to serialize config bundle: %w", err)
	}
	if err := s.transport.Upload(ctx, ConfigFile, data, ContentTypeJSON); err != nil {
		return fmt.Errorf("failed to write remote config: %w", err)
	}
	return nil
}
