// Package cli provides the command-line interface for marksync.
package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mkrebs/marksync/internal/config"
	"github.com/mkrebs/marksync/internal/logging"
	"github.com/mkrebs/marksync/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "marksync",
		Usage:   "Synchronize bookmarks and settings across devices over WebDAV",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a config file (YAML or TOML)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			configureColors(cmd)
			return ctx, configureLogging(cmd)
		},
		Commands: []*cli.Command{
			versionCommand(),
			configCommand(),
			syncCommand(),
			statusCommand(),
		},
	}
	return app.Run(ctx, args)
}

// loadConfig loads the configuration, honoring the --config flag.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.DefaultOptions()
	opts.Level = logging.LevelWarn

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}
