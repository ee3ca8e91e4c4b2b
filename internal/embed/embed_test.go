package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedTexts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s, want /v1/embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q", req.Model)
		}

		resp := map[string]any{"data": []map[string]any{}}
		data := resp["data"].([]map[string]any)
		for range req.Input {
			data = append(data, map[string]any{"embedding": []float64{0.1, 0.2, 0.3}})
		}
		resp["data"] = data
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(Options{
		BaseURL:    server.URL,
		APIKey:     "secret",
		Model:      "nomic-embed-text",
		VectorSize: 3,
	})

	vectors, err := client.EmbedTexts(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][1] != float32(0.2) {
		t.Errorf("vectors[0][1] = %v, want 0.2", vectors[0][1])
	}
}

func TestEmbedTextsEmptyInput(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://localhost:1"})
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Error("EmbedTexts() should reject empty input")
	}
}

func TestEmbedTextsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Model: "m"})
	if _, err := client.EmbedTexts(context.Background(), []string{"x"}); err == nil {
		t.Error("EmbedTexts() should fail on non-200 status")
	}
}

func TestEmbedTextsSizeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{0.1}}},
		})
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Model: "m", VectorSize: 768})
	if _, err := client.EmbedTexts(context.Background(), []string{"x"}); err == nil {
		t.Error("EmbedTexts() should reject wrong-sized vectors")
	}
}

func TestEmbedTextsCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Model: "m"})
	if _, err := client.EmbedTexts(context.Background(), []string{"x", "y"}); err == nil {
		t.Error("EmbedTexts() should fail when counts differ")
	}
}
