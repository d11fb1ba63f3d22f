package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/desertthunder/siren/internal/tasks"
	"github.com/desertthunder/siren/internal/ui"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// Select downloads the chosen song to a path the user confirms, then opens the player.
func (r *Runner) Select(ctx context.Context, cmd *cli.Command) error {
	return r.runSelection(ctx, tasks.ModeDownload)
}

// Online materializes the chosen song in the cache directory and opens the player.
func (r *Runner) Online(ctx context.Context, cmd *cli.Command) error {
	return r.runSelection(ctx, tasks.ModeOnline)
}

// Resume reopens the player from the last saved state.
func (r *Runner) Resume(ctx context.Context, cmd *cli.Command) error {
	s, err := r.newSession()
	if err != nil {
		return r.notify(err)
	}

	restored, err := s.ctrl.Restore(ctx)
	if err != nil {
		return r.notify(err)
	}
	if !restored {
		return r.writePlain("%s\n", ui.Info("Nothing to resume yet. Pick a song with `siren select` or `siren online`."))
	}

	return r.serve(ctx, s)
}

func (r *Runner) runSelection(ctx context.Context, mode tasks.Mode) error {
	// Redirect logs to file to avoid interfering with picker rendering
	if r.logFile != "" {
		fileLogger, logCloser, err := shared.NewFileLogger(shared.ExpandPath(r.logFile))
		if err != nil {
			return r.notify(fmt.Errorf("failed to create file logger: %w", err))
		}
		fileLogger.SetLevel(r.logger.GetLevel())

		previous := r.logger
		r.SetLogger(fileLogger)
		defer func() {
			r.SetLogger(previous)
			logCloser.Close()
		}()
	}

	s, err := r.newSession()
	if err != nil {
		return r.notify(err)
	}

	var term sync.Mutex
	engine := tasks.NewPlayerEngine(
		r.catalogService(), r.transferService(), &guardedPicker{Picker: r.songPicker(), term: &term},
		s.state, s.settings, s.ctrl,
		tasks.EngineConfig{
			SavePath:      r.config.Download.SavePath,
			CacheDir:      r.config.Download.CacheDir,
			DefaultVolume: r.config.Player.DefaultVolume,
		},
	)

	r.logger.Info("starting selection", "mode", mode)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progressCh {
			term.Lock()
			r.printProgress(update)
			term.Unlock()
		}
	}()

	result, err := engine.Select(ctx, mode, progressCh)
	close(progressCh)
	<-printed

	if err != nil {
		return r.notify(err)
	}

	if result.Downloaded {
		r.writePlain("%s\n", ui.Info(fmt.Sprintf("Saved %s", result.Path)))
	}
	return r.serve(ctx, s)
}

// guardedPicker holds term while a picker owns the terminal, so progress lines wait until it exits.
type guardedPicker struct {
	tasks.Picker
	term *sync.Mutex
}

func (p *guardedPicker) PickSong(ctx context.Context, songs []models.Song) (*models.Song, error) {
	p.term.Lock()
	defer p.term.Unlock()
	return p.Picker.PickSong(ctx, songs)
}

func (p *guardedPicker) ChooseSavePath(ctx context.Context, suggested string) (string, error) {
	p.term.Lock()
	defer p.term.Unlock()
	return p.Picker.ChooseSavePath(ctx, suggested)
}

func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.FetchCatalog:
		r.writePlain("%s\n", update.Message)
	case tasks.Download:
		if update.Total > 0 && update.Step < update.Total {
			r.writePlain("\r   %s", update.Message)
		} else {
			r.writePlain("\r   %s\n", update.Message)
		}
	case tasks.OpenPanel:
		r.writePlain("\n%s\n", ui.Title(update.Message))
	default:
		r.writePlain("   %s\n", update.Message)
	}
}

// serve keeps the process alive while the panel is open, then stops the host.
func (r *Runner) serve(ctx context.Context, s *session) error {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.host.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("failed to stop player server", "error", err)
		}
	}()

	if !s.ctrl.IsOpen() {
		return nil
	}

	if url := s.host.URL(); url != "" {
		r.writePlain("Player running at %s\n", url)
	}
	r.writePlain("%s\n", ui.Muted("Close the player tab or press Ctrl+C to quit."))

	err := s.ctrl.Wait(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
