package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mkrebs/marksync/internal/remote"
	"github.com/mkrebs/marksync/internal/status"
	"github.com/mkrebs/marksync/internal/store"
	msync "github.com/mkrebs/marksync/internal/sync"
	"github.com/mkrebs/marksync/internal/ui"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Synchronize bookmarks and settings with the remote folder",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mechanism",
				Aliases: []string{"m"},
				Usage:   "Conflict resolution mechanism (local-first, remote-first, merge)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would happen without changing anything",
			},
			&cli.BoolFlag{
				Name:  "no-embed",
				Usage: "Skip embedding backfill after the sync",
			},
		},
		Action: runSync,
	}
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := msync.Options{
		Mechanism:  cfg.GetMechanism(),
		DryRun:     cmd.Bool("dry-run"),
		Bookmarks:  cfg.Sync.Bookmarks,
		ConfigDocs: cfg.ConfigDocs(),
	}
	if m := cmd.String("mechanism"); m != "" {
		mechanism := msync.Mechanism(m)
		if !mechanism.IsValid() {
			return fmt.Errorf("unknown mechanism %q, valid: %v", m, msync.AllMechanisms())
		}
		opts.Mechanism = mechanism
	}

	local, err := store.NewFile(cfg.Store.Path)
	if err != nil {
		return err
	}
	state, err := status.Open(cfg.Store.StatePath)
	if err != nil {
		return err
	}

	transport, err := remote.NewWebDAV(remote.WebDAVOptions{
		BaseURL:  cfg.Remote.URL,
		Username: cfg.Remote.Username,
		Password: cfg.Remote.Password(),
		Folder:   cfg.Remote.Folder,
		Timeout:  cfg.Remote.Timeout,
	})
	if err != nil {
		return err
	}

	engine := msync.New(remote.NewStore(transport), local, state, state.Device())
	result, err := engine.Sync(ctx, opts)
	if err != nil {
		_ = state.RecordSync(time.Now(), err.Error())
		return err
	}

	if !opts.DryRun {
		if recErr := state.RecordSync(result.LastSync, result.LastSyncResult()); recErr != nil {
			fmt.Println(ui.StatusWarning(fmt.Sprintf("could not record sync outcome: %v", recErr)))
		}
	}

	fmt.Print(result.Summary())

	if needs := result.NeedsEmbedding(); len(needs) > 0 && !opts.DryRun {
		if cfg.Embeddings.Enabled && !cmd.Bool("no-embed") {
			if err := backfillEmbeddings(ctx, cfg, local, needs); err != nil {
				fmt.Println(ui.StatusWarning(fmt.Sprintf("embedding backfill incomplete: %v", err)))
			}
		} else {
			fmt.Println(ui.Dim(fmt.Sprintf("%d bookmark(s) left without embeddings (backfill disabled)", len(needs))))
		}
	}

	if !result.Success() {
		return errors.New("sync completed with errors")
	}
	fmt.Println(ui.StatusSuccess("sync complete"))
	return nil
}
