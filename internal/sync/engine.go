package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/model"
	"github.com/mkrebs/marksync/internal/remote"
	"github.com/mkrebs/marksync/internal/store"
)

// Options configures a sync run.
type Options struct {
	// Mechanism is the conflict resolution policy. Unknown values fall back
	// to DefaultMechanism.
	Mechanism Mechanism

	// DryRun reports the action each category would take without mutating
	// either side.
	DryRun bool

	// Bookmarks enables syncing the bookmark payload.
	Bookmarks bool

	// ConfigDocs lists the config sub-documents included in sync. Empty
	// disables config sync entirely.
	ConfigDocs []model.Category
}

// DefaultOptions returns the default sync options: all categories enabled,
// merge on conflict.
func DefaultOptions() Options {
	return Options{
		Mechanism:  DefaultMechanism,
		Bookmarks:  true,
		ConfigDocs: model.ConfigDocs(),
	}
}

// State persists the device's private memory of the last successful sync.
type State interface {
	// LastKnown returns the metadata as of the most recent successful sync,
	// or nil if this device has never synced. It is the three-way merge base.
	LastKnown() *model.SyncMetadata

	// SaveLastKnown overwrites the last-known-sync record.
	SaveLastKnown(meta *model.SyncMetadata) error
}

// Engine is the sync orchestrator. All collaborators are injected; the
// engine holds no process-wide mutable state.
type Engine struct {
	remote *remote.Store
	local  store.Store
	state  State
	device string
	now    func() time.Time
}

// New creates a sync engine. The device string identifies this device in
// metadata written to the remote.
func New(remoteStore *remote.Store, localStore store.Store, state State, device string) *Engine {
	return &Engine{
		remote: remoteStore,
		local:  localStore,
		state:  state,
		device: device,
		now:    time.Now,
	}
}

// Sync reads the remote metadata once and syncs the bookmark category
// followed by the config category. Config sync reuses the metadata produced
// by the bookmarks step. Per-category failures are independent: a bookmarks
// failure does not prevent the config attempt.
func (e *Engine) Sync(ctx context.Context, opts Options) (*Result, error) {
	defer logging.Timer("sync")()

	mechanism := opts.Mechanism
	if !mechanism.IsValid() {
		if mechanism != "" {
			logging.Warn("unknown conflict mechanism, falling back",
				logging.Mechanism(string(mechanism)),
				slog.String("fallback", string(DefaultMechanism)),
			)
		}
		mechanism = DefaultMechanism
	}
	opts.Mechanism = mechanism

	logging.Debug("starting sync",
		logging.Operation("sync"),
		logging.Mechanism(string(mechanism)),
		logging.Device(e.device),
		slog.Bool("dry_run", opts.DryRun),
	)

	result := &Result{
		Mechanism: mechanism,
		DryRun:    opts.DryRun,
	}

	remoteMeta, err := e.remote.ReadMetadata(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to read remote metadata: %w", err)
	}

	meta := remoteMeta
	if opts.Bookmarks {
		var updated *model.SyncMetadata
		result.Bookmarks, updated = e.SyncBookmarks(ctx, meta, opts)
		if result.Bookmarks.Success() {
			meta = updated
		}
	}
	if len(opts.ConfigDocs) > 0 {
		var updated *model.SyncMetadata
		result.Config, updated = e.SyncConfig(ctx, meta, opts)
		if result.Config.Success() {
			meta = updated
		}
	}

	result.Metadata = meta
	result.LastSync = e.now()

	logging.Debug("sync completed",
		logging.Operation("sync"),
		slog.Bool("changed", result.Changed()),
		slog.Bool("success", result.Success()),
	)

	return result, nil
}

// saveLastKnown persists the merge base after a successful category action.
func (e *Engine) saveLastKnown(meta *model.SyncMetadata, category model.Category) {
	if err := e.state.SaveLastKnown(meta); err != nil {
		// The sync itself succeeded; a stale merge base only means the next
		// run resolves through the conflict path instead of a plain push
		// or pull.
		logging.Warn("failed to persist last-known-sync record",
			logging.Category(string(category)),
			logging.Err(err),
		)
	}
}

func failed(category model.Category, err error) CategoryResult {
	logging.Error("category sync failed",
		logging.Category(string(category)),
		logging.Err(err),
	)
	return CategoryResult{Category: category, Action: ActionFailed, Err: err}
}
