package sync

// Mechanism defines the conflict resolution policy applied when both the
// local and the remote side changed since the last successful sync.
type Mechanism string

const (
	// MechanismLocalFirst pushes local data, overwriting remote regardless
	// of the remote's content.
	MechanismLocalFirst Mechanism = "local-first"

	// MechanismRemoteFirst pulls remote data, fully overwriting local.
	// Local-only edits are lost.
	MechanismRemoteFirst Mechanism = "remote-first"

	// MechanismMerge imports remote non-destructively and re-pushes the
	// merged result so the remote reflects the merge outcome too.
	MechanismMerge Mechanism = "merge"
)

// DefaultMechanism is the safe fallback used for unknown mechanisms.
const DefaultMechanism = MechanismMerge

// IsValid returns true if the mechanism is recognized.
func (m Mechanism) IsValid() bool {
	switch m {
	case MechanismLocalFirst, MechanismRemoteFirst, MechanismMerge:
		return true
	default:
		return false
	}
}

// AllMechanisms returns all supported conflict mechanisms.
func AllMechanisms() []Mechanism {
	return []Mechanism{MechanismLocalFirst, MechanismRemoteFirst, MechanismMerge}
}

// String returns the string representation of the mechanism.
func (m Mechanism) String() string {
	return string(m)
}

// Description returns a human-readable description of the mechanism.
func (m Mechanism) Description() string {
	switch m {
	case MechanismLocalFirst:
		return "Push local data, overwriting the remote unconditionally"
	case MechanismRemoteFirst:
		return "Pull remote data, fully overwriting local (destructive)"
	case MechanismMerge:
		return "Merge both sides, keeping local-only content"
	default:
		return "Unknown mechanism"
	}
}

// OrDefault returns the mechanism if valid, DefaultMechanism otherwise.
func (m Mechanism) OrDefault() Mechanism {
	if m.IsValid() {
		return m
	}
	return DefaultMechanism
}
