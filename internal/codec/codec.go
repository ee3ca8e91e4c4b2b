// Package codec serializes the bulk bookmark payload for transfer. The
// payload is JSON-encoded then gzip-compressed; the small metadata and
// config documents travel uncompressed and do not use this package.
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mkrebs/marksync/internal/model"
)

// DecodeError indicates the remote payload bytes could not be decoded.
// Callers treat this the same as a missing remote file and fall back to
// re-uploading local data.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode bookmark payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes a bookmark collection to compressed bytes.
func Encode(list []model.Bookmark) ([]byte, error) {
	if list == nil {
		list = []model.Bookmark{}
	}

	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize bookmark payload: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress bookmark payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize compressed payload: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode is the exact inverse of Encode. Malformed or corrupted input
// returns a *DecodeError.
func Decode(data []byte) ([]model.Bookmark, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer func() { _ = gz.Close() }()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	var list []model.Bookmark
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if list == nil {
		list = []model.Bookmark{}
	}
	return list, nil
}
