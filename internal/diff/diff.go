// Package diff classifies the difference between a local and a remote
// bookmark collection. Identity is by URL. The classification drives both
// pull-style imports and the merge conflict mechanism.
package diff

import (
	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/model"
)

// Result is the outcome of comparing a local collection against a remote one.
type Result struct {
	// Added holds remote records with no local counterpart.
	Added []model.Bookmark

	// Updated holds records present on both sides that differ; values are
	// the remote record's, with the local embedding carried forward when
	// the embedding-relevant text is unchanged.
	Updated []model.Bookmark

	// Removed holds URLs of local records with no remote counterpart.
	Removed []string

	// Same holds local records that match their remote counterpart.
	Same []model.Bookmark

	// NeedsEmbedding holds URLs of added or updated records that end up
	// without a usable vector and must be re-embedded.
	NeedsEmbedding []string
}

// Changed reports whether the diff contains any difference at all.
func (r *Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Updated) > 0 || len(r.Removed) > 0
}

// Bookmarks computes the add/update/remove/same classification between a
// local and a remote collection. Output ordering is deterministic (URL
// ascending).
func Bookmarks(local, remote []model.Bookmark) Result {
	defer logging.Timer("diff")()

	localSorted := make([]model.Bookmark, len(local))
	copy(localSorted, local)
	model.SortBookmarks(localSorted)

	remoteSorted := make([]model.Bookmark, len(remote))
	copy(remoteSorted, remote)
	model.SortBookmarks(remoteSorted)

	localByURL := make(map[string]model.Bookmark, len(localSorted))
	for _, b := range localSorted {
		localByURL[b.URL] = b
	}
	remoteByURL := make(map[string]model.Bookmark, len(remoteSorted))
	for _, b := range remoteSorted {
		remoteByURL[b.URL] = b
	}

	var result Result

	for _, localRec := range localSorted {
		remoteRec, onRemote := remoteByURL[localRec.URL]
		if !onRemote {
			result.Removed = append(result.Removed, localRec.URL)
			continue
		}

		if localRec.MetaEquals(remoteRec) {
			// Opportunistic backfill: a remote vector the local record lacks
			// counts as an update even though the meta projection matches.
			if remoteRec.HasEmbedding() && !localRec.HasEmbedding() {
				result.Updated = append(result.Updated, remoteRec)
				continue
			}
			result.Same = append(result.Same, localRec)
			continue
		}

		// Remote wins on shared records. The local vector survives only
		// when the embedding-relevant text is unchanged, so edits to
		// fields like useCount never force a re-embed.
		merged := remoteRec
		if localRec.EmbeddingText() == remoteRec.EmbeddingText() && localRec.HasEmbedding() {
			merged.Embedding = localRec.Embedding
		}
		result.Updated = append(result.Updated, merged)
		if !merged.HasEmbedding() {
			result.NeedsEmbedding = append(result.NeedsEmbedding, merged.URL)
		}
	}

	for _, remoteRec := range remoteSorted {
		if _, onLocal := localByURL[remoteRec.URL]; !onLocal {
			result.Added = append(result.Added, remoteRec)
			if !remoteRec.HasEmbedding() {
				result.NeedsEmbedding = append(result.NeedsEmbedding, remoteRec.URL)
			}
		}
	}

	logging.Debug("diff computed",
		logging.Operation("diff"),
		logging.Count(len(result.Added)+len(result.Updated)+len(result.Removed)),
	)

	return result
}
