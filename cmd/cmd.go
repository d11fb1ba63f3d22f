// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/siren/internal/formatter"
	"github.com/desertthunder/siren/internal/repositories"
	"github.com/urfave/cli/v3"
)

// selectCommand runs the download-first flow
func selectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "select",
		Aliases: []string{"download"},
		Usage:   "Pick a song, download it and open the player",
		Action:  r.Select,
	}
}

// onlineCommand runs the play-online flow
func onlineCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "online",
		Aliases: []string{"play"},
		Usage:   "Pick a song and play it without choosing a save path",
		Action:  r.Online,
	}
}

// playerCommand restores the last session
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "player",
		Aliases: []string{"resume"},
		Usage:   "Reopen the player with the last played song",
		Action:  r.Resume,
	}
}

// songsCommand handles catalog browsing
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Browse the song catalog",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List every song in the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
						Value:   formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the listing to a file instead of stdout",
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "show",
				Usage: "Resolve a song to its source",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "cid",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsShow,
			},
		},
	}
}

// stateCommand inspects the saved player state
func stateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Inspect the saved player state",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the last played song and position",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.StateShow,
			},
			{
				Name:   "clear",
				Usage:  "Forget the saved player state",
				Action: r.StateClear,
			},
		},
	}
}

// settingsCommand manages persisted settings
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Manage persisted settings (" + strings.Join(repositories.SettingKeys, ", ") + ")",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show every setting and its effective value",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SettingsList,
			},
			{
				Name:  "get",
				Usage: "Print one setting",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
				},
				Action: r.SettingsGet,
			},
			{
				Name:  "set",
				Usage: "Store one setting",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.SettingsSet,
			},
			{
				Name:  "unset",
				Usage: "Remove a stored setting so its default applies",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
				},
				Action: r.SettingsUnset,
			},
		},
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the latest migration (reapplied on the next command)",
				Action: r.SetupRollback,
			},
		},
	}
}
