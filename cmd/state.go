package main

import (
	"context"

	"github.com/desertthunder/siren/internal/formatter"
	"github.com/desertthunder/siren/internal/repositories"
	"github.com/desertthunder/siren/internal/ui"
	"github.com/urfave/cli/v3"
)

// StateShow prints the saved player state.
func (r *Runner) StateShow(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return r.notify(err)
	}

	state, err := repositories.NewStateRepository(db).Get()
	if err != nil {
		return r.notify(err)
	}
	if state == nil {
		return r.writePlain("%s\n", ui.Info("No saved player state"))
	}

	data, err := formatter.State(state, cmd.Bool("json"))
	if err != nil {
		return r.notify(err)
	}
	return r.writeBytes(data)
}

// StateClear forgets the saved player state. The volume setting is kept.
func (r *Runner) StateClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return r.notify(err)
	}

	if err := repositories.NewStateRepository(db).Clear(); err != nil {
		return r.notify(err)
	}
	r.logger.Debug("player state cleared")
	return r.writePlain("%s\n", ui.Info("Player state cleared"))
}
