package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkrebs/marksync/internal/model"
)

// Action represents the action the engine took for a category.
type Action string

const (
	// ActionNone indicates remote and local were already identical.
	ActionNone Action = "none"

	// ActionBootstrap indicates a full upload to a remote with no usable
	// data for the category.
	ActionBootstrap Action = "bootstrap"

	// ActionPush indicates local data was uploaded over the remote.
	ActionPush Action = "push"

	// ActionPull indicates remote data was imported into the local store.
	ActionPull Action = "pull"

	// ActionMerge indicates remote data was merged into the local store and
	// the merged result was re-pushed.
	ActionMerge Action = "merge"

	// ActionFailed indicates an error occurred processing the category.
	ActionFailed Action = "failed"
)

// CategoryResult is the outcome of syncing a single category.
type CategoryResult struct {
	// Category is the category that was processed.
	Category model.Category

	// Action is the action that was taken.
	Action Action

	// Changed indicates whether the action mutated local or remote state.
	Changed bool

	// Message provides additional context about the action.
	Message string

	// Err contains any error that occurred during processing.
	Err error

	// NeedsEmbedding lists bookmark URLs that ended up without a vector
	// after an import or merge and should be re-embedded.
	NeedsEmbedding []string
}

// Success returns true if the category was processed without error.
func (cr CategoryResult) Success() bool {
	return cr.Action != ActionFailed
}

// Result contains the complete outcome of a sync run.
type Result struct {
	// LastSync is the time the run completed.
	LastSync time.Time

	// Mechanism is the conflict mechanism that was in effect.
	Mechanism Mechanism

	// DryRun indicates no changes were made.
	DryRun bool

	// Bookmarks and Config are the per-category outcomes.
	Bookmarks CategoryResult
	Config    CategoryResult

	// Metadata is the sync metadata as of the end of the run. The caller's
	// status collaborator persists it alongside LastSyncResult.
	Metadata *model.SyncMetadata
}

// Success returns true if every attempted category succeeded.
func (r *Result) Success() bool {
	return r.Bookmarks.Success() && r.Config.Success()
}

// Changed returns true if any category mutated local or remote state.
func (r *Result) Changed() bool {
	return r.Bookmarks.Changed || r.Config.Changed
}

// NeedsEmbedding returns all bookmark URLs that should be re-embedded.
func (r *Result) NeedsEmbedding() []string {
	return r.Bookmarks.NeedsEmbedding
}

// LastSyncResult returns "success" or the first failure message, matching
// what the status collaborator persists.
func (r *Result) LastSyncResult() string {
	if r.Bookmarks.Err != nil {
		return r.Bookmarks.Err.Error()
	}
	if r.Config.Err != nil {
		return r.Config.Err.Error()
	}
	return "success"
}

// Summary returns a human-readable summary of the sync run.
func (r *Result) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Synced using %s mechanism\n", r.Mechanism))
	for _, cr := range []CategoryResult{r.Bookmarks, r.Config} {
		if cr.Category == "" {
			continue
		}
		line := fmt.Sprintf("  %-10s %s", cr.Category+":", cr.Action)
		if cr.Message != "" {
			line += " (" + cr.Message + ")"
		}
		sb.WriteString(line + "\n")
	}

	if n := len(r.NeedsEmbedding()); n > 0 {
		sb.WriteString(fmt.Sprintf("  %d bookmark(s) need re-embedding\n", n))
	}

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, cr := range []CategoryResult{r.Bookmarks, r.Config} {
			if cr.Err != nil {
				sb.WriteString(fmt.Sprintf("  - %s: %v\n", cr.Category, cr.Err))
			}
		}
	}

	return sb.String()
}
