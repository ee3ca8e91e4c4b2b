package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkrebs/marksync/internal/model"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.json")
}

func TestFile_BookmarkLifecycle(t *testing.T) {
	path := tempStorePath(t)
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}

	if err := f.SetBookmarks([]model.Bookmark{
		{URL: "https://a.example", Title: "A"},
		{URL: "https://b.example", Title: "B"},
	}); err != nil {
		t.Fatalf("SetBookmarks() error: %v", err)
	}

	// Upsert by URL
	if err := f.SetBookmarks([]model.Bookmark{
		{URL: "https://a.example", Title: "A updated"},
		{URL: "https://c.example", Title: "C"},
	}); err != nil {
		t.Fatalf("SetBookmarks() error: %v", err)
	}

	if err := f.RemoveBookmarks([]string{"https://b.example", "https://nope.example"}); err != nil {
		t.Fatalf("RemoveBookmarks() error: %v", err)
	}

	list, err := f.Bookmarks()
	if err != nil {
		t.Fatalf("Bookmarks() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d bookmarks, want 2", len(list))
	}

	byURL := make(map[string]model.Bookmark)
	for _, b := range list {
		byURL[b.URL] = b
	}
	if byURL["https://a.example"].Title != "A updated" {
		t.Error("upsert should update the existing record")
	}
	if _, ok := byURL["https://c.example"]; !ok {
		t.Error("upsert should add the new record")
	}
}

func TestFile_PersistsAcrossLoads(t *testing.T) {
	path := tempStorePath(t)

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.SetBookmarks([]model.Bookmark{{URL: "https://a.example", Title: "A"}}); err != nil {
		t.Fatalf("SetBookmarks() error: %v", err)
	}
	if err := f.SetDocument(model.CategorySettings, json.RawMessage(`{"theme":"dark"}`)); err != nil {
		t.Fatalf("SetDocument() error: %v", err)
	}

	reloaded, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() reload error: %v", err)
	}
	list, err := reloaded.Bookmarks()
	if err != nil {
		t.Fatalf("Bookmarks() error: %v", err)
	}
	if len(list) != 1 || list[0].Title != "A" {
		t.Errorf("bookmarks did not survive reload: %+v", list)
	}
	doc, err := reloaded.Document(model.CategorySettings)
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if string(doc) != `{"theme":"dark"}` {
		t.Errorf("settings did not survive reload: %s", doc)
	}
}

func TestFile_DocumentCompactedOnWrite(t *testing.T) {
	path := tempStorePath(t)

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	// Indented input, such as a pretty-printed export.
	indented := json.RawMessage("{\n  \"theme\": \"dark\",\n  \"pageSize\": 20\n}")
	if err := f.SetDocument(model.CategoryFilters, indented); err != nil {
		t.Fatalf("SetDocument() error: %v", err)
	}

	want := `{"theme":"dark","pageSize":20}`
	doc, err := f.Document(model.CategoryFilters)
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if string(doc) != want {
		t.Errorf("Document() = %s, want compact %s", doc, want)
	}

	reloaded, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() reload error: %v", err)
	}
	doc, err = reloaded.Document(model.CategoryFilters)
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if string(doc) != want {
		t.Errorf("reloaded Document() = %s, want compact %s", doc, want)
	}
}

func TestFile_SetDocumentRejectsInvalidJSON(t *testing.T) {
	f, err := NewFile(tempStorePath(t))
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.SetDocument(model.CategorySettings, json.RawMessage("{nope")); err == nil {
		t.Error("expected error for an invalid document")
	}
}

func TestFile_CorruptFile(t *testing.T) {
	path := tempStorePath(t)
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatalf("failed to seed corrupt file: %v", err)
	}

	if _, err := NewFile(path); err == nil {
		t.Error("expected error loading a corrupt store file")
	}
}

func TestMergeObjects(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		remote string
		want   map[string]any
	}{
		{
			name:   "remote keys win, local-only keys survive",
			local:  `{"theme":"dark","pageSize":20}`,
			remote: `{"theme":"light","lang":"en"}`,
			want:   map[string]any{"theme": "light", "pageSize": float64(20), "lang": "en"},
		},
		{
			name:   "empty local takes remote",
			local:  "",
			remote: `{"a":1}`,
			want:   map[string]any{"a": float64(1)},
		},
		{
			name:   "non-object local is replaced",
			local:  `[1,2,3]`,
			remote: `{"a":1}`,
			want:   map[string]any{"a": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := MergeObjects(json.RawMessage(tt.local), json.RawMessage(tt.remote))
			if err != nil {
				t.Fatalf("MergeObjects() error: %v", err)
			}

			var got map[string]any
			if err := json.Unmarshal(merged, &got); err != nil {
				t.Fatalf("merged output is not valid JSON: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d keys, want %d: %v", len(got), len(tt.want), got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestMergeObjects_EmptyRemote(t *testing.T) {
	merged, err := MergeObjects(json.RawMessage(`{"a":1}`), nil)
	if err != nil {
		t.Fatalf("MergeObjects() error: %v", err)
	}
	if string(merged) != `{"a":1}` {
		t.Errorf("empty remote should keep local, got %s", merged)
	}
}
