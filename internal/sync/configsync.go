package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mkrebs/marksync/internal/detect"
	"github.com/mkrebs/marksync/internal/hash"
	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/model"
	"github.com/mkrebs/marksync/internal/remote"
)

// SyncConfig runs the state machine for the config bundle against the given
// remote metadata, which is the metadata produced by the bookmarks step so
// both categories end up in one coherent remote document.
//
// Detection is coarse (a change in any enabled sub-document marks the whole
// bundle changed) while resolution is fine (merge imports are applied per
// sub-document). The asymmetry is deliberate: it is what makes partial
// config sync come out right.
func (e *Engine) SyncConfig(ctx context.Context, remoteMeta *model.SyncMetadata, opts Options) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryConfig

	localDocs, localState, err := e.localConfigState(opts.ConfigDocs)
	if err != nil {
		return failed(category, err), remoteMeta
	}

	change := detect.Config(e.state.LastKnown(), remoteMeta, localState, opts.ConfigDocs)

	if !change.RemoteDiffers {
		logging.Debug("config already in sync",
			logging.Category(string(category)),
		)
		return CategoryResult{
			Category: category,
			Action:   ActionNone,
			Message:  "remote identical to local",
		}, remoteMeta
	}

	action := e.planAction(change, opts.Mechanism)
	logging.Debug("config action planned",
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
		return e.pushConfig(ctx, remoteMeta, localDocs, localState, action, opts.ConfigDocs)
	case ActionPull:
		return e.pullConfig(ctx, remoteMeta, localDocs, localState, opts.ConfigDocs)
	case ActionMerge:
		return e.mergeConfig(ctx, remoteMeta, opts.ConfigDocs)
	default:
		return failed(category, fmt.Errorf("unhandled sync action: %s", action)), remoteMeta
	}
}

// localConfigState reads the enabled sub-documents and their hashes.
func (e *Engine) localConfigState(enabled []model.Category) (map[model.Category]json.RawMessage, detect.LocalState, error) {
	docs := make(map[model.Category]json.RawMessage, len(enabled))
	state := detect.LocalState{Docs: make(map[model.Category]string, len(enabled))}

	for _, c := range enabled {
		raw, err := e.local.Document(c)
		if err != nil {
			return nil, state, fmt.Errorf("failed to read local %s: %w", c, err)
		}
		if len(raw) == 0 {
			continue
		}
		docHash, err := hash.Document(raw)
		if err != nil {
			return nil, state, fmt.Errorf("failed to hash local %s: %w", c, err)
		}
		docs[c] = raw
		state.Docs[c] = docHash
	}
	return docs, state, nil
}

// pushConfig uploads the enabled local sub-documents as a bundle and writes
// metadata with each sub-document's hash. Bundle before metadata, same
// ordering rule as the bookmark payload.
func (e *Engine) pushConfig(ctx context.Context, remoteMeta *model.SyncMetadata, localDocs map[model.Category]json.RawMessage, localState detect.LocalState, action Action, enabled []model.Category) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryConfig

	bundle := &model.ConfigBundle{}
	for c, raw := range localDocs {
		bundle.SetDoc(c, raw)
	}

	if err := e.remote.WriteConfig(ctx, bundle); err != nil {
		return failed(category, err), remoteMeta
	}

	now := e.now()
	newMeta := remoteMeta.Clone()
	if newMeta == nil {
		newMeta = &model.SyncMetadata{}
	}
	newMeta.SyncAt = now
	configMeta := &model.ConfigMeta{LastModified: now, Device: e.device}
	for _, c := range enabled {
		if docHash, ok := localState.Docs[c]; ok {
			configMeta.SetDoc(c, &model.ConfigDocMeta{ContentHash: docHash})
		}
	}
	newMeta.Config = configMeta

	if err := e.remote.WriteMetadata(ctx, newMeta); err != nil {
		return failed(category, err), remoteMeta
	}

	e.saveLastKnown(newMeta, category)

	logging.Info("config pushed",
		logging.Category(string(category)),
		logging.Count(len(localDocs)),
		logging.Device(e.device),
	)

	message := "local config pushed"
	if action == ActionBootstrap {
		message = "remote had no config, full upload"
	}
	return CategoryResult{
		Category: category,
		Action:   action,
		Changed:  true,
		Message:  message,
	}, newMeta
}

// pullConfig overwrites enabled local sub-documents with the remote's and
// adopts the remote metadata as-is.
func (e *Engine) pullConfig(ctx context.Context, remoteMeta *model.SyncMetadata, localDocs map[model.Category]json.RawMessage, localState detect.LocalState, enabled []model.Category) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryConfig

	bundle, err := e.remote.ReadConfig(ctx)
	if err != nil {
		if errors.Is(err, remote.ErrNoData) {
			return e.pushConfig(ctx, remoteMeta, localDocs, localState, ActionBootstrap, enabled)
		}
		return failed(category, err), remoteMeta
	}

	applied := 0
	for _, c := range enabled {
		raw := bundle.Doc(c)
		if len(raw) == 0 {
			continue
		}
		if err := e.local.SetDocument(c, raw); err != nil {
			return failed(category, fmt.Errorf("failed to import %s: %w", c, err)), remoteMeta
		}
		applied++
	}

	newMeta := remoteMeta.Clone()
	e.saveLastKnown(newMeta, category)

	logging.Info("config pulled",
		logging.Category(string(category)),
		logging.Count(applied),
	)

	return CategoryResult{
		Category: category,
		Action:   ActionPull,
		Changed:  applied > 0,
		Message:  fmt.Sprintf("%d sub-document(s) imported", applied),
	}, newMeta
}

// mergeConfig imports each enabled remote sub-document without wiping
// local-only keys, then re-pushes the merged bundle.
func (e *Engine) mergeConfig(ctx context.Context, remoteMeta *model.SyncMetadata, enabled []model.Category) (CategoryResult, *model.SyncMetadata) {
	category := model.CategoryConfig

	bundle, err := e.remote.ReadConfig(ctx)
	if err != nil {
		if errors.Is(err, remote.ErrNoData) {
			localDocs, localState, stateErr := e.localConfigState(enabled)
			if stateErr != nil {
				return failed(category, stateErr), remoteMeta
			}
			return e.pushConfig(ctx, remoteMeta, localDocs, localState, ActionBootstrap, enabled)
		}
		return failed(category, err), remoteMeta
	}

	merged := 0
	for _, c := range enabled {
		raw := bundle.Doc(c)
		if len(raw) == 0 {
			continue
		}
		if err := e.local.MergeDocument(c, raw); err != nil {
			return failed(category, fmt.Errorf("failed to merge %s: %w", c, err)), remoteMeta
		}
		merged++
	}

	// Re-read so the pushed bundle reflects the merge outcome.
	localDocs, localState, err := e.localConfigState(enabled)
	if err != nil {
		return failed(category, err), remoteMeta
	}

	result, newMeta := e.pushConfig(ctx, remoteMeta, localDocs, localState, ActionMerge, enabled)
	if !result.Success() {
		return result, remoteMeta
	}
	result.Message = fmt.Sprintf("%d sub-document(s) merged", merged)
	return result, newMeta
}
