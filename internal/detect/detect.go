// Package detect classifies, per sync category, what changed since the last
// successful sync. It is an explicit three-way comparison: the locally
// persisted last-known-sync metadata is the merge base, fresh local content
// hashes are one side, and the remote metadata is the other.
package detect

import (
	"log/slog"

	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/model"
)

// LocalState carries freshly computed local content hashes. Docs maps each
// config sub-document to its hash; a missing key means the sub-document has
// no local content.
type LocalState struct {
	BookmarksHash string
	Docs          map[model.Category]string
}

// Change is the three-way classification for one category.
type Change struct {
	// LocalChanged is true when the local content hash differs from the
	// merge base. A device with no merge base reports true.
	LocalChanged bool

	// RemoteChanged is true when the remote lastModified timestamp differs
	// from the merge base. Timestamps, not hashes, so "remote is identical
	// to what we last saw" is distinguishable from "remote happens to hash
	// the same as local right now".
	RemoteChanged bool

	// RemoteDiffers compares local and remote content hashes directly,
	// independent of the three-way history. False means nothing to do.
	RemoteDiffers bool

	// RemoteMissing is true when the remote has no data for this category.
	RemoteMissing bool
}

// Bookmarks classifies the bookmark category.
func Bookmarks(base, remote *model.SyncMetadata, localHash string) Change {
	var baseMeta, remoteMeta *model.BookmarksMeta
	if base != nil {
		baseMeta = base.Bookmarks
	}
	if remote != nil {
		remoteMeta = remote.Bookmarks
	}

	change := Change{
		LocalChanged:  baseMeta == nil || baseMeta.ContentHash != localHash,
		RemoteChanged: remoteTimestampChanged(baseMeta, remoteMeta),
		RemoteMissing: remoteMeta == nil,
	}
	change.RemoteDiffers = remoteMeta == nil || remoteMeta.ContentHash != localHash

	logging.Debug("change detected",
		logging.Category(string(model.CategoryBookmarks)),
		slog.Bool("local_changed", change.LocalChanged),
		slog.Bool("remote_changed", change.RemoteChanged),
		slog.Bool("remote_differs", change.RemoteDiffers),
		slog.Bool("remote_missing", change.RemoteMissing),
	)
	return change
}

// Config classifies the config bundle as a whole. Detection is deliberately
// coarse: a change in any enabled sub-document marks the whole category
// changed (OR semantics); resolution later applies per sub-document.
func Config(base, remote *model.SyncMetadata, local LocalState, enabled []model.Category) Change {
	var baseMeta, remoteMeta *model.ConfigMeta
	if base != nil {
		baseMeta = base.Config
	}
	if remote != nil {
		remoteMeta = remote.Config
	}

	change := Change{
		RemoteChanged: configTimestampChanged(baseMeta, remoteMeta),
		RemoteMissing: remoteMeta == nil,
	}

	for _, doc := range enabled {
		localHash, hasLocal := local.Docs[doc]
		if docChanged(baseMeta.Doc(doc), localHash, hasLocal) {
			change.LocalChanged = true
		}
		if docChanged(remoteMeta.Doc(doc), localHash, hasLocal) {
			change.RemoteDiffers = true
		}
	}
	if baseMeta == nil {
		change.LocalChanged = true
	}
	if remoteMeta == nil {
		change.RemoteDiffers = true
	}

	logging.Debug("change detected",
		logging.Category(string(model.CategoryConfig)),
		slog.Bool("local_changed", change.LocalChanged),
		slog.Bool("remote_changed", change.RemoteChanged),
		slog.Bool("remote_differs", change.RemoteDiffers),
		slog.Bool("remote_missing", change.RemoteMissing),
	)
	return change
}

// docChanged compares a metadata entry against a local hash.
func docChanged(meta *model.ConfigDocMeta, localHash string, hasLocal bool) bool {
	if meta == nil {
		return hasLocal
	}
	if !hasLocal {
		return true
	}
	return meta.ContentHash != localHash
}

func remoteTimestampChanged(base, remote *model.BookmarksMeta) bool {
	if base == nil && remote == nil {
		return false
	}
	if base == nil || remote == nil {
		return true
	}
	return !base.LastModified.Equal(remote.LastModified)
}

func configTimestampChanged(base, remote *model.ConfigMeta) bool {
	if base == nil && remote == nil {
		return false
	}
	if base == nil || remote == nil {
		return true
	}
	return !base.LastModified.Equal(remote.LastModified)
}
