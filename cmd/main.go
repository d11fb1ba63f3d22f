package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "~/.siren/config.toml"

// resolveConfigPath prefers config.toml in the working directory, like a project-local override.
func resolveConfigPath() string {
	if _, err := os.Stat("config.toml"); err == nil {
		return "config.toml"
	}
	return defaultConfigPath
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "siren",
		Usage:   "Browse, download and play the Monster Siren catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   resolveConfigPath(),
				Sources: cli.EnvVars("SIREN_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(r.logger, log.DebugLevel)
			}
			return ctx, r.loadConfig(shared.ExpandPath(cmd.String("config")))
		},
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{
		Logger:  logger,
		LogFile: "~/.siren/siren.log",
	})
	defer runner.Close()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
