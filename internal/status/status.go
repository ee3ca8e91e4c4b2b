// Package status persists the per-device sync state: a stable device
// identity, the outcome of the most recent sync, and the last-known-sync
// metadata record the engine uses as its three-way merge base.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/model"
)

// stateData is the on-disk shape of the state file.
type stateData struct {
	DeviceID       string              `json:"deviceId"`
	DeviceName     string              `json:"deviceName"`
	LastSync       time.Time           `json:"lastSync,omitzero"`
	LastSyncResult string              `json:"lastSyncResult,omitempty"`
	LastKnown      *model.SyncMetadata `json:"lastKnown,omitempty"`
}

// State is a file-backed device state. It satisfies the engine's State
// interface. Not safe for concurrent use.
type State struct {
	path string
	data stateData
}

// Open loads the state file, creating a fresh identity when the file does
// not exist. A corrupt state file is replaced with a fresh identity; the
// only consequence is that the next sync has no merge base and resolves
// through the conflict path.
func Open(path string) (*State, error) {
	s := &State{path: path}

	// #nosec G304 - path comes from the user's own configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.initIdentity()
			return s, s.save()
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		logging.Warn("state file is corrupt, starting fresh",
			logging.Path(path),
			logging.Err(err),
		)
		s.data = stateData{}
	}
	if s.data.DeviceID == "" {
		s.initIdentity()
		return s, s.save()
	}
	return s, nil
}

func (s *State) initIdentity() {
	s.data.DeviceID = uuid.NewString()
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "device"
	}
	s.data.DeviceName = host
}

// Device returns the identity written into remote metadata: the hostname
// plus a short unique suffix, so two machines with the same hostname stay
// distinguishable.
func (s *State) Device() string {
	suffix := s.data.DeviceID
	if i := strings.IndexByte(suffix, '-'); i > 0 {
		suffix = suffix[:i]
	}
	return s.data.DeviceName + "-" + suffix
}

// LastKnown returns the metadata as of the most recent successful sync, or
// nil if this device has never synced.
func (s *State) LastKnown() *model.SyncMetadata {
	return s.data.LastKnown
}

// SaveLastKnown overwrites the last-known-sync record.
func (s *State) SaveLastKnown(meta *model.SyncMetadata) error {
	s.data.LastKnown = meta
	return s.save()
}

// RecordSync stores the outcome of a sync run.
func (s *State) RecordSync(at time.Time, result string) error {
	s.data.LastSync = at
	s.data.LastSyncResult = result
	return s.save()
}

// LastSync returns the time and outcome of the most recent sync run. The
// zero time means the device has never synced.
func (s *State) LastSync() (time.Time, string) {
	return s.data.LastSync, s.data.LastSyncResult
}

func (s *State) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	// Owner-only: the state file carries no secrets, but there is no reason
	// for it to be world-readable either.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
