package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrebs/marksync/internal/detect"
	"github.com/mkrebs/marksync/internal/diff"
	"github.com/mkrebs/marksync/internal/hash"
	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/model"
	"github.com/mkrebs/marksync/internal/remote"
)

// SyncBookmarks runs the state machine for the bookmark category against
// the given remote metadata. It returns the category outcome and the
// metadata the next category should build on (the remote metadata unchanged
// when nothing was written).
func (e *Engine) SyncBookmarks(ctx context.Context, remoteMeta *model.SyncMetadata, opts Options) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryBookmarks

	local, err := e.local.Bookmarks()
	if err != nil {
		return failed(category, fmt.Errorf("failed to read local bookmarks: %w", err)), remoteMeta
	}
	localHash, err := hash.Bookmarks(local)
	if err != nil {
		return failed(category, err), remoteMeta
	}

	change := detect.Bookmarks(e.state.LastKnown(), remoteMeta, localHash)

	// Idempotence: identical content on both sides is always a no-op,
	// regardless of the three-way history.
	if !change.RemoteDiffers {
		logging.Debug("bookmarks already in sync",
			logging.Category(string(category)),
		)
		return CategoryResult{
			Category: category,
			Action:   ActionNone,
			Message:  "remote identical to local",
		}, remoteMeta
	}

	action := e.planAction(change, opts.Mechanism)
	logging.Debug("bookmarks action planned",
		logging.Category(string(category)),
		logging.Operation(string(action)),
		logging.Mechanism(string(opts.Mechanism)),
	)

	if opts.DryRun {
		return CategoryResult{
			Category: category,
			Action:   action,
			Changed:  true,
			Message:  "dry run",
		}, remoteMeta
	}

	switch action {
	case ActionBootstrap, ActionPush:
		return e.pushBookmarks(ctx, remoteMeta, local, localHash, action)
	case ActionPull:
		return e.pullBookmarks(ctx, remoteMeta, local, localHash)
	case ActionMerge:
		return e.mergeBookmarks(ctx, remoteMeta, local)
	default:
		return failed(category, fmt.Errorf("unhandled sync action: %s", action)), remoteMeta
	}
}

// planAction maps the three-way change classification and the configured
// mechanism onto an action. Callers have already ruled out the no-op case.
func (e *Engine) planAction(change detect.Change, mechanism Mechanism) Action {
	if change.RemoteMissing {
		return ActionBootstrap
	}
	switch {
	case change.LocalChanged && !change.RemoteChanged:
		return ActionPush
	case !change.LocalChanged && change.RemoteChanged:
		return ActionPull
	}
	// Both sides changed since the merge base (or the base is unusable):
	// resolve by mechanism.
	switch mechanism {
	case MechanismLocalFirst:
		return ActionPush
	case MechanismRemoteFirst:
		return ActionPull
	default:
		return ActionMerge
	}
}

// pushBookmarks uploads the local collection and writes fresh metadata.
// The payload is written before the metadata so the metadata never
// references a payload that does not exist yet.
func (e *Engine) pushBookmarks(ctx context.Context, remoteMeta *model.SyncMetadata, list []model.Bookmark, listHash string, action Action) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryBookmarks

	if err := e.remote.WriteBookmarks(ctx, list); err != nil {
		return failed(category, err), remoteMeta
	}

	now := e.now()
	newMeta := remoteMeta.Clone()
	if newMeta == nil {
		newMeta = &model.SyncMetadata{}
	}
	newMeta.SyncAt = now
	newMeta.Bookmarks = &model.BookmarksMeta{
		ContentHash:  listHash,
		LastModified: now,
		Device:       e.device,
	}

	if err := e.remote.WriteMetadata(ctx, newMeta); err != nil {
		return failed(category, err), remoteMeta
	}

	e.saveLastKnown(newMeta, category)

	logging.Info("bookmarks pushed",
		logging.Category(string(category)),
		logging.Count(len(list)),
		logging.Device(e.device),
	)

	message := "local data pushed"
	if action == ActionBootstrap {
		message = "remote had no data, full upload"
	}
	return CategoryResult{
		Category: category,
		Action:   action,
		Changed:  true,
		Message:  message,
	}, newMeta
}

// pullBookmarks imports the remote collection, expressed as add/update/
// remove operations against the local store rather than a blind wipe. The
// remote metadata is adopted as-is.
func (e *Engine) pullBookmarks(ctx context.Context, remoteMeta *model.SyncMetadata, local []model.Bookmark, localHash string) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryBookmarks

	remoteList, err := e.remote.ReadBookmarks(ctx)
	if err != nil {
		if errors.Is(err, remote.ErrNoData) {
			// Metadata claimed data that is missing or corrupt: fall back
			// to re-uploading local.
			return e.pushBookmarks(ctx, remoteMeta, local, localHash, ActionBootstrap)
		}
		return failed(category, err), remoteMeta
	}

	d := diff.Bookmarks(local, remoteList)
	if err := e.applyDiff(d, true); err != nil {
		return failed(category, err), remoteMeta
	}

	newMeta := remoteMeta.Clone()
	e.saveLastKnown(newMeta, category)

	logging.Info("bookmarks pulled",
		logging.Category(string(category)),
		logging.Count(len(d.Added)+len(d.Updated)+len(d.Removed)),
	)

	return CategoryResult{
		Category:       category,
		Action:         ActionPull,
		Changed:        d.Changed(),
		Message:        fmt.Sprintf("%d added, %d updated, %d removed", len(d.Added), len(d.Updated), len(d.Removed)),
		NeedsEmbedding: d.NeedsEmbedding,
	}, newMeta
}

// mergeBookmarks imports remote non-destructively (local-only records
// survive) and re-pushes the merged collection so the remote reflects the
// merge outcome too.
func (e *Engine) mergeBookmarks(ctx context.Context, remoteMeta *model.SyncMetadata, local []model.Bookmark) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryBookmarks

	remoteList, err := e.remote.ReadBookmarks(ctx)
	if err != nil {
		if errors.Is(err, remote.ErrNoData) {
			localHash, hashErr := hash.Bookmarks(local)
			if hashErr != nil {
				return failed(category, hashErr), remoteMeta
			}
			return e.pushBookmarks(ctx, remoteMeta, local, localHash, ActionBootstrap)
		}
		return failed(category, err), remoteMeta
	}

	d := diff.Bookmarks(local, remoteList)
	if err := e.applyDiff(d, false); err != nil {
		return failed(category, err), remoteMeta
	}

	merged, err := e.local.Bookmarks()
	if err != nil {
		return failed(category, fmt.Errorf("failed to re-read merged bookmarks: %w", err)), remoteMeta
	}
	mergedHash, err := hash.Bookmarks(merged)
	if err != nil {
		return failed(category, err), remoteMeta
	}

	result, newMeta := e.pushBookmarks(ctx, remoteMeta, merged, mergedHash, ActionMerge)
	if !result.Success() {
		return result, remoteMeta
	}

	result.Message = fmt.Sprintf("%d added, %d updated, local-only kept", len(d.Added), len(d.Updated))
	result.NeedsEmbedding = d.NeedsEmbedding
	result.Changed = true
	return result, newMeta
}

// applyDiff writes a diff outcome into the local store. Removals are only
// applied on destructive imports; the merge path keeps local-only records.
func (e *Engine) applyDiff(d diff.Result, removeLocalOnly bool) error {
	upserts := make([]model.Bookmark, 0, len(d.Added)+len(d.Updated))
	upserts = append(upserts, d.Added...)
	upserts = append(upserts, d.Updated...)

	if len(upserts) > 0 {
		if err := e.local.SetBookmarks(upserts); err != nil {
			return fmt.Errorf("failed to write imported bookmarks: %w", err)
		}
	}
	if removeLocalOnly && len(d.Removed) > 0 {
		if err := e.local.RemoveBookmarks(d.Removed); err != nil {
			return fmt.Errorf("failed to remove local-only bookmarks: %w", err)
		}
	}
	return nil
}
