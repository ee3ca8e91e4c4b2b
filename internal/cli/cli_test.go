package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mkrebs/marksync/internal/util"
)

func TestRunVersion(t *testing.T) {
	err := Run(context.Background(), []string{"marksync", "version"})
	util.AssertNoError(t, err)
}

func TestRunConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	util.WriteFile(t, path, `
remote:
  url: https://dav.example.com
  username: marie
`)

	err := Run(context.Background(), []string{"marksync", "--config", path, "config", "show"})
	util.AssertNoError(t, err)
}

func TestRunConfigShowMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	err := Run(context.Background(), []string{"marksync", "--config", path, "config", "show"})
	if err == nil {
		t.Error("config show should fail for a missing --config file")
	}
}

func TestRunSyncRejectsUnknownMechanism(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	util.WriteFile(t, path, `
remote:
  url: https://dav.example.com
`)

	err := Run(context.Background(), []string{"marksync", "--config", path, "sync", "--mechanism", "newest-wins"})
	if err == nil {
		t.Error("sync should reject an unknown mechanism flag")
	}
}
