package diff

import (
	"testing"
	"time"

	"github.com/mkrebs/marksync/internal/model"
)

var saved = time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)

func mark(url, title string) model.Bookmark {
	return model.Bookmark{URL: url, Title: title, SavedAt: saved}
}

func TestBookmarks_Additivity(t *testing.T) {
	// local = {A, B}, remote = {B', C} with B differing in title.
	localB := mark("https://b.example", "B local")
	remoteB := mark("https://b.example", "B remote")

	local := []model.Bookmark{mark("https://a.example", "A"), localB}
	remote := []model.Bookmark{remoteB, mark("https://c.example", "C")}

	result := Bookmarks(local, remote)

	if len(result.Added) != 1 || result.Added[0].URL != "https://c.example" {
		t.Errorf("Added = %+v, want [C]", result.Added)
	}
	if len(result.Updated) != 1 || result.Updated[0].Title != "B remote" {
		t.Errorf("Updated = %+v, want [B with remote title]", result.Updated)
	}
	if len(result.Removed) != 1 || result.Removed[0] != "https://a.example" {
		t.Errorf("Removed = %v, want [A]", result.Removed)
	}
	if len(result.Same) != 0 {
		t.Errorf("Same = %+v, want empty", result.Same)
	}
	if !result.Changed() {
		t.Error("Changed() should be true")
	}
}

func TestBookmarks_Identical(t *testing.T) {
	list := []model.Bookmark{mark("https://a.example", "A"), mark("https://b.example", "B")}

	result := Bookmarks(list, list)

	if result.Changed() {
		t.Error("identical collections should not report changes")
	}
	if len(result.Same) != 2 {
		t.Errorf("Same has %d records, want 2", len(result.Same))
	}
}

func TestBookmarks_EmbeddingPreserved(t *testing.T) {
	// Same title/excerpt/tags on both sides, only useCount differs: the
	// local vector must survive onto the updated record.
	localRec := mark("https://a.example", "A")
	localRec.UseCount = 1
	localRec.Embedding = []float32{0.5, 0.25}

	remoteRec := mark("https://a.example", "A")
	remoteRec.UseCount = 7

	result := Bookmarks([]model.Bookmark{localRec}, []model.Bookmark{remoteRec})

	if len(result.Updated) != 1 {
		t.Fatalf("Updated has %d records, want 1", len(result.Updated))
	}
	updated := result.Updated[0]
	if updated.UseCount != 7 {
		t.Error("remote values should win on shared records")
	}
	if !updated.HasEmbedding() {
		t.Fatal("local embedding should be carried forward")
	}
	if updated.Embedding[0] != 0.5 {
		t.Error("carried embedding does not match the local vector")
	}
	if len(result.NeedsEmbedding) != 0 {
		t.Errorf("NeedsEmbedding = %v, want empty", result.NeedsEmbedding)
	}
}

func TestBookmarks_EmbeddingDroppedOnSemanticChange(t *testing.T) {
	localRec := mark("https://a.example", "Old title")
	localRec.Embedding = []float32{0.5}

	remoteRec := mark("https://a.example", "New title")

	result := Bookmarks([]model.Bookmark{localRec}, []model.Bookmark{remoteRec})

	if len(result.Updated) != 1 {
		t.Fatalf("Updated has %d records, want 1", len(result.Updated))
	}
	if result.Updated[0].HasEmbedding() {
		t.Error("stale local embedding must not survive a semantic change")
	}
	if len(result.NeedsEmbedding) != 1 || result.NeedsEmbedding[0] != "https://a.example" {
		t.Errorf("NeedsEmbedding = %v, want the updated URL", result.NeedsEmbedding)
	}
}

func TestBookmarks_OpportunisticBackfill(t *testing.T) {
	localRec := mark("https://a.example", "A")

	remoteRec := mark("https://a.example", "A")
	remoteRec.Embedding = []float32{0.75}

	result := Bookmarks([]model.Bookmark{localRec}, []model.Bookmark{remoteRec})

	if len(result.Updated) != 1 {
		t.Fatalf("an identical record with a remote-only vector should count as updated, got %+v", result)
	}
	if !result.Updated[0].HasEmbedding() {
		t.Error("backfilled record should carry the remote vector")
	}
	if len(result.Same) != 0 {
		t.Error("backfill should not classify the record as same")
	}
}

func TestBookmarks_AddedWithoutEmbedding(t *testing.T) {
	remote := []model.Bookmark{mark("https://new.example", "New")}

	result := Bookmarks(nil, remote)

	if len(result.Added) != 1 {
		t.Fatalf("Added has %d records, want 1", len(result.Added))
	}
	if len(result.NeedsEmbedding) != 1 {
		t.Errorf("new record without a vector should need embedding, got %v", result.NeedsEmbedding)
	}
}

func TestBookmarks_Deterministic(t *testing.T) {
	local := []model.Bookmark{
		mark("https://c.example", "C"),
		mark("https://a.example", "A"),
	}
	remote := []model.Bookmark{
		mark("https://d.example", "D"),
		mark("https://b.example", "B"),
	}

	first := Bookmarks(local, remote)
	second := Bookmarks([]model.Bookmark{local[1], local[0]}, []model.Bookmark{remote[1], remote[0]})

	if len(first.Added) != 2 || first.Added[0].URL != "https://b.example" {
		t.Errorf("Added should be URL-sorted, got %+v", first.Added)
	}
	for i := range first.Added {
		if first.Added[i].URL != second.Added[i].URL {
			t.Error("input order should not affect output order")
		}
	}
	for i := range first.Removed {
		if first.Removed[i] != second.Removed[i] {
			t.Error("input order should not affect removed order")
		}
	}
}
