// Package sync implements the remote synchronization engine. It reconciles
// the local bookmark and config store with a remote file-based store under
// occasional concurrent edits from multiple devices, without a central
// coordinating server.
//
// # Decision model
//
// Each category (bookmarks, then config) is evaluated independently and
// sequentially. Given the three-way change classification against the
// locally persisted last-known-sync record:
//   - remote identical to local: no-op
//   - remote has no data: bootstrap upload
//   - only local changed: push
//   - only remote changed: pull
//   - both changed: conflict, resolved by the configured mechanism
//
// # Conflict mechanisms
//
//   - MechanismLocalFirst: push local, overwriting remote unconditionally
//   - MechanismRemoteFirst: pull remote, fully overwriting local (local-only
//     edits are lost; this is documented destructive behavior)
//   - MechanismMerge: import remote non-destructively (local-only bookmarks
//     survive, shared bookmarks take remote values with embeddings preserved
//     where safe), then re-push the merged result
//
// An unknown mechanism falls back to MechanismMerge rather than failing.
//
// # Concurrency
//
// All remote calls are issued strictly sequentially; the engine performs no
// internal locking. The caller must ensure at most one sync per remote
// folder is in flight at a time on this device. Two different devices
// syncing the same folder concurrently is exactly what the conflict logic
// exists for, but truly simultaneous uploads are last-writer-wins at the
// storage layer.
package sync
