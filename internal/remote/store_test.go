package remote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mkrebs/marksync/internal/model"
)

func TestStore_Metadata_RoundTrip(t *testing.T) {
	ctx := context.Background()
	transport := NewMemory()
	store := NewStore(transport)

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	meta := &model.SyncMetadata{
		SyncAt:    now,
		Bookmarks: &model.BookmarksMeta{ContentHash: "abc", LastModified: now, Device: "dev-1"},
	}

	if err := store.WriteMetadata(ctx, meta); err != nil {
		t.Fatalf("WriteMetadata() error: %v", err)
	}
	if ct := transport.ContentType(MetaFile); ct != ContentTypeJSON {
		t.Errorf("metadata content type = %q, want %q", ct, ContentTypeJSON)
	}

	got, err := store.ReadMetadata(ctx)
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if got == nil || got.Bookmarks == nil {
		t.Fatal("ReadMetadata() returned incomplete metadata")
	}
	if got.Bookmarks.ContentHash != "abc" || got.Bookmarks.Device != "dev-1" {
		t.Errorf("metadata mismatch: %+v", got.Bookmarks)
	}
}

func TestStore_ReadMetadata_Missing(t *testing.T) {
	store := NewStore(NewMemory())

	meta, err := store.ReadMetadata(context.Background())
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if meta != nil {
		t.Error("missing metadata should read as nil")
	}
}

func TestStore_ReadMetadata_Corrupt(t *testing.T) {
	transport := NewMemory()
	transport.Put(MetaFile, []byte("{corrupt"))
	store := NewStore(transport)

	meta, err := store.ReadMetadata(context.Background())
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if meta != nil {
		t.Error("corrupt metadata should read as nil")
	}
}

func TestStore_ReadMetadata_TransportError(t *testing.T) {
	transport := NewMemory()
	transport.ExistsErr = errors.New("network down")
	store := NewStore(transport)

	if _, err := store.ReadMetadata(context.Background()); err == nil {
		t.Error("transport errors should surface, not map to bootstrap")
	}
}

func TestStore_Bookmarks_RoundTrip(t *testing.T) {
	ctx := context.Background()
	transport := NewMemory()
	store := NewStore(transport)

	list := []model.Bookmark{
		{URL: "https://a.example", Title: "A", Embedding: []float32{0.5}},
		{URL: "https://b.example", Title: "B"},
	}

	if err := store.WriteBookmarks(ctx, list); err != nil {
		t.Fatalf("WriteBookmarks() error: %v", err)
	}
	if ct := transport.ContentType(DataFile); ct != ContentTypeGzip {
		t.Errorf("payload content type = %q, want %q", ct, ContentTypeGzip)
	}

	got, err := store.ReadBookmarks(ctx)
	if err != nil {
		t.Fatalf("ReadBookmarks() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d bookmarks, want 2", len(got))
	}
	if !got[0].HasEmbedding() {
		t.Error("embedding should survive the payload round trip")
	}
}

func TestStore_ReadBookmarks_NoData(t *testing.T) {
	tests := []struct {
		name string
		seed func(m *Memory)
	}{
		{"missing", func(_ *Memory) {}},
		{"corrupt", func(m *Memory) { m.Put(DataFile, []byte("not gzip")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := NewMemory()
			tt.seed(transport)
			store := NewStore(transport)

			_, err := store.ReadBookmarks(context.Background())
			if !errors.Is(err, ErrNoData) {
				t.Errorf("expected ErrNoData, got %v", err)
			}
		})
	}
}

func TestStore_Config_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemory())

	bundle := &model.ConfigBundle{
		Settings: json.RawMessage(`{"theme":"dark"}`),
		Filters:  json.RawMessage(`["work","reading"]`),
	}

	if err := store.WriteConfig(ctx, bundle); err != nil {
		t.Fatalf("WriteConfig() error: %v", err)
	}

	got, err := store.ReadConfig(ctx)
	if err != nil {
		t.Fatalf("ReadConfig() error: %v", err)
	}
	if string(got.Settings) != `{"theme":"dark"}` {
		t.Errorf("settings mismatch: %s", got.Settings)
	}
	if got.Services != nil {
		t.Error("absent sub-document should stay nil")
	}
}

func TestStore_ReadConfig_NoData(t *testing.T) {
	transport := NewMemory()
	transport.Put(ConfigFile, []byte("][ nope"))
	store := NewStore(transport)

	_, err := store.ReadConfig(context.Background())
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for corrupt config, got %v", err)
	}
}
