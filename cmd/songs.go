package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/siren/internal/formatter"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/desertthunder/siren/internal/ui"
	"github.com/urfave/cli/v3"
)

// SongsList prints the catalog, or writes it to --output.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputPath := cmd.String("output")

	songs, err := r.catalogService().ListSongs(ctx)
	if err != nil {
		return r.notify(err)
	}

	data, err := formatter.Songs(songs, format)
	if err != nil {
		return r.notify(err)
	}

	if outputPath == "" {
		return r.writeBytes(data)
	}

	path := shared.ExpandPath(outputPath)
	if err := formatter.WriteExport(path, data); err != nil {
		return r.notify(err)
	}
	r.logger.Info("catalog exported", "path", path, "songs", len(songs), "format", format)
	return r.writePlain("%s\n", ui.Info(fmt.Sprintf("Exported %d songs to %s", len(songs), path)))
}

// SongsShow prints the resolved detail for one song.
func (r *Runner) SongsShow(ctx context.Context, cmd *cli.Command) error {
	cid := cmd.StringArg("cid")
	if cid == "" {
		return r.notify(fmt.Errorf("%w: song id is required", shared.ErrMissingArgument))
	}

	detail, err := r.catalogService().GetSongDetail(ctx, cid)
	if err != nil {
		return r.notify(err)
	}

	data, err := formatter.Detail(detail, cmd.Bool("json"))
	if err != nil {
		return r.notify(err)
	}
	return r.writeBytes(data)
}
