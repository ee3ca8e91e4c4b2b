// Package model defines the core data types shared across marksync.
package model

import (
	"slices"
	"strings"
	"time"
)

// Bookmark represents a single saved bookmark. URL is the identity key:
// two records describe the same bookmark iff their URLs match.
type Bookmark struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags,omitempty"`
	Excerpt    string    `json:"excerpt,omitempty"`
	SavedAt    time.Time `json:"savedAt"`
	LastUsed   time.Time `json:"lastUsed,omitzero"`
	UseCount   int       `json:"useCount"`
	APIService string    `json:"apiService,omitempty"`
	EmbedModel string    `json:"embedModel,omitempty"`

	// Embedding is the derived semantic vector. It is excluded from content
	// hashing and from meta comparison because it is large and recomputable
	// from EmbeddingText.
	Embedding []float32 `json:"embedding,omitempty"`
}

// EmbeddingText returns the canonical text the embedding vector is derived
// from. Two records with equal EmbeddingText can safely share a vector.
func (b Bookmark) EmbeddingText() string {
	parts := []string{b.Title, b.Excerpt}
	if len(b.Tags) > 0 {
		parts = append(parts, strings.Join(b.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}

// HasEmbedding reports whether the record carries a non-empty vector.
func (b Bookmark) HasEmbedding() bool {
	return len(b.Embedding) > 0
}

// MetaEquals compares every field except Embedding.
func (b Bookmark) MetaEquals(other Bookmark) bool {
	if b.URL != other.URL ||
		b.Title != other.Title ||
		b.Excerpt != other.Excerpt ||
		b.UseCount != other.UseCount ||
		b.APIService != other.APIService ||
		b.EmbedModel != other.EmbedModel {
		return false
	}
	if !b.SavedAt.Equal(other.SavedAt) || !b.LastUsed.Equal(other.LastUsed) {
		return false
	}
	return slices.Equal(b.Tags, other.Tags)
}

// WithoutEmbedding returns a copy of the record with the vector stripped.
func (b Bookmark) WithoutEmbedding() Bookmark {
	b.Embedding = nil
	return b
}

// SortBookmarks orders records by URL ascending so enumeration order never
// perturbs hashing or serialization.
func SortBookmarks(list []Bookmark) {
	slices.SortFunc(list, func(a, b Bookmark) int {
		return strings.Compare(a.URL, b.URL)
	})
}
