package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// MarksyncConfigPath returns the marksync configuration directory
func MarksyncConfigPath() string {
	return filepath.Join(HomeDir(), ".config", "marksync")
}

// DefaultStorePath returns the default local bookmark store file
func DefaultStorePath() string {
	return filepath.Join(MarksyncConfigPath(), "store.json")
}

// DefaultStatePath returns the default device state file
func DefaultStatePath() string {
	return filepath.Join(MarksyncConfigPath(), "state.json")
}

// ExpandPath expands a leading ~ to the user's home directory and resolves
// relative paths against baseDir. Returns "" for empty input.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		return filepath.Join(baseDir, path)
	}
	return path
}
