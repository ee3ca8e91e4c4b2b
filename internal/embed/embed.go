// Package embed provides a client for OpenAI-compatible embeddings
// endpoints, used to re-embed bookmarks imported during sync.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to an OpenAI-compatible /v1/embeddings endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	vectorSize int
	client     *http.Client
}

// Options configures the embeddings client.
type Options struct {
	// BaseURL is the endpoint root, without the /v1/embeddings suffix.
	BaseURL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Model is the embedding model name.
	Model string
	// VectorSize, when non-zero, validates the dimension of every returned
	// vector.
	VectorSize int
	// Timeout bounds each request. Defaults to 60 seconds.
	Timeout time.Duration
}

// NewClient creates an embeddings client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		model:      opts.Model,
		vectorSize: opts.VectorSize,
		client:     &http.Client{Timeout: timeout},
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
}

type embeddingsResponse struct {
	Data []embeddingData `json:"data"`
}

// EmbedTexts generates embeddings for the given texts, one vector per input
// in order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	body, err := json.Marshal(embeddingsRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings endpoint returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	result := make([][]float32, len(parsed.Data))
	for i, data := range parsed.Data {
		if c.vectorSize != 0 && len(data.Embedding) != c.vectorSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.vectorSize)
		}
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}
	return result, nil
}
