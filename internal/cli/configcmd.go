package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/mkrebs/marksync/internal/config"
	"github.com/mkrebs/marksync/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and manage configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return fmt.Errorf("failed to load config: %w", err)
					}
					data, err := yaml.Marshal(cfg)
					if err != nil {
						return err
					}
					fmt.Print(string(data))
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "Write a default config file",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if config.Exists() {
						return fmt.Errorf("config file already exists at %s", config.FilePath())
					}
					if err := config.Default().Save(); err != nil {
						return err
					}
					fmt.Println(ui.StatusSuccess("created " + config.FilePath()))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file location",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Println(config.FilePath())
					return nil
				},
			},
		},
	}
}
