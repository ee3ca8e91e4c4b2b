package cli

import (
	"context"
	"fmt"

	"github.com/mkrebs/marksync/internal/config"
	"github.com/mkrebs/marksync/internal/embed"
	"github.com/mkrebs/marksync/internal/model"
	"github.com/mkrebs/marksync/internal/progress"
	"github.com/mkrebs/marksync/internal/store"
)

// backfillEmbeddings re-embeds the bookmarks a sync left without vectors.
// The local store is updated in place; the fresh vectors reach the remote on
// the next sync, since vectors are excluded from content hashing and do not
// force one themselves.
func backfillEmbeddings(ctx context.Context, cfg *config.Config, local store.Store, urls []string) error {
	client := embed.NewClient(embed.Options{
		BaseURL:    cfg.Embeddings.BaseURL,
		APIKey:     cfg.Embeddings.APIKey(),
		Model:      cfg.Embeddings.Model,
		VectorSize: cfg.Embeddings.VectorSize,
	})

	list, err := local.Bookmarks()
	if err != nil {
		return err
	}
	byURL := make(map[string]model.Bookmark, len(list))
	for _, b := range list {
		byURL[b.URL] = b
	}

	var pending []model.Bookmark
	for _, u := range urls {
		if b, ok := byURL[u]; ok {
			pending = append(pending, b)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	batchSize := cfg.Embeddings.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	bar := progress.Simple(int64(len(pending)), "Embedding bookmarks")
	defer func() {
		_ = bar.Finish()
	}()

	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, b := range batch {
			texts[i] = b.EmbeddingText()
		}

		vectors, err := client.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch starting at %d: %w", start, err)
		}

		updated := make([]model.Bookmark, len(batch))
		for i, b := range batch {
			b.Embedding = vectors[i]
			b.EmbedModel = cfg.Embeddings.Model
			updated[i] = b
		}
		if err := local.SetBookmarks(updated); err != nil {
			return fmt.Errorf("failed to store embeddings: %w", err)
		}
		if err := bar.Add(len(batch)); err != nil {
			return err
		}
	}
	return nil
}
