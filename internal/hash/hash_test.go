package hash

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mkrebs/marksync/internal/model"
)

func sampleBookmarks() []model.Bookmark {
	saved := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return []model.Bookmark{
		{URL: "https://a.example", Title: "A", Tags: []string{"x"}, SavedAt: saved, UseCount: 1},
		{URL: "https://b.example", Title: "B", Excerpt: "second", SavedAt: saved},
	}
}

func TestBookmarks_Deterministic(t *testing.T) {
	list := sampleBookmarks()

	first, err := Bookmarks(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Bookmarks(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("hashing twice gave %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("expected 64-char hex digest, got %d chars", len(first))
	}
}

func TestBookmarks_OrderIndependent(t *testing.T) {
	list := sampleBookmarks()
	reversed := []model.Bookmark{list[1], list[0]}

	a, err := Bookmarks(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Bookmarks(reversed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Error("record order should not affect the digest")
	}
}

func TestBookmarks_EmbeddingExcluded(t *testing.T) {
	list := sampleBookmarks()
	base, err := Bookmarks(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list[0].Embedding = []float32{0.5, 0.25}
	withVector, err := Bookmarks(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != withVector {
		t.Error("embedding changes should not affect the digest")
	}
}

func TestBookmarks_FieldSensitivity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Bookmark)
	}{
		{"title", func(b *model.Bookmark) { b.Title = "changed" }},
		{"excerpt", func(b *model.Bookmark) { b.Excerpt = "changed" }},
		{"tags", func(b *model.Bookmark) { b.Tags = append(b.Tags, "new") }},
		{"use count", func(b *model.Bookmark) { b.UseCount++ }},
		{"last used", func(b *model.Bookmark) { b.LastUsed = b.SavedAt.Add(time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := sampleBookmarks()
			base, err := Bookmarks(list)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			tt.mutate(&list[0])
			changed, err := Bookmarks(list)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if base == changed {
				t.Errorf("changing %s should change the digest", tt.name)
			}
		})
	}
}

func TestBookmarks_Empty(t *testing.T) {
	a, err := Bookmarks(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Bookmarks([]model.Bookmark{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Error("nil and empty collections should hash identically")
	}
}

func TestDocument(t *testing.T) {
	compact, err := Document(json.RawMessage(`{"theme":"dark","pageSize":20}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spaced, err := Document(json.RawMessage("{\n  \"theme\": \"dark\",\n  \"pageSize\": 20\n}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if compact != spaced {
		t.Error("formatting should not affect the document digest")
	}

	other, err := Document(json.RawMessage(`{"theme":"light","pageSize":20}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other == compact {
		t.Error("different content should produce a different digest")
	}

	if _, err := Document(json.RawMessage(`{not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}
