package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mkrebs/marksync/internal/model"
	"github.com/mkrebs/marksync/internal/status"
	"github.com/mkrebs/marksync/internal/store"
	"github.com/mkrebs/marksync/internal/ui"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show device identity and the outcome of the last sync",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			state, err := status.Open(cfg.Store.StatePath)
			if err != nil {
				return err
			}

			fmt.Println(ui.Header("Device"))
			fmt.Printf("  %s\n", state.Device())

			lastSync, lastResult := state.LastSync()
			fmt.Println(ui.Header("Last sync"))
			if lastSync.IsZero() {
				fmt.Printf("  %s\n", ui.Dim("never"))
			} else {
				fmt.Printf("  %s\n", lastSync.Local().Format("2006-01-02 15:04:05"))
				if lastResult == "success" {
					fmt.Printf("  %s\n", ui.StatusSuccess(lastResult))
				} else {
					fmt.Printf("  %s\n", ui.StatusError(lastResult))
				}
			}

			local, err := store.NewFile(cfg.Store.Path)
			if err != nil {
				return err
			}
			bookmarks, err := local.Bookmarks()
			if err != nil {
				return err
			}
			withVectors := 0
			for _, b := range bookmarks {
				if b.HasEmbedding() {
					withVectors++
				}
			}
			fmt.Println(ui.Header("Local store"))
			fmt.Printf("  %d bookmark(s), %d with embeddings\n", len(bookmarks), withVectors)

			if base := state.LastKnown(); base != nil {
				fmt.Println(ui.Header("Last-known sync"))
				if base.Bookmarks != nil {
					fmt.Printf("  bookmarks: %s by %s\n",
						base.Bookmarks.LastModified.Local().Format("2006-01-02 15:04:05"),
						base.Bookmarks.Device)
				}
				if base.Config != nil {
					docs := 0
					for _, c := range model.ConfigDocs() {
						if base.Config.Doc(c) != nil {
							docs++
						}
					}
					fmt.Printf("  config: %d sub-document(s) by %s\n", docs, base.Config.Device)
				}
			}

			return nil
		},
	}
}
