package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/services"
	"github.com/desertthunder/siren/internal/shared"
)

// Mode selects where the chosen song is written.
type Mode int

const (
	ModeDownload Mode = iota // ask for a save path under save_path
	ModeOnline               // write to the cache directory without asking
)

func (m Mode) String() string {
	switch m {
	case ModeDownload:
		return "download"
	case ModeOnline:
		return "online"
	default:
		return ""
	}
}

// Picker collects the user's choices during a selection.
//
// Both methods return an error wrapping [shared.ErrUserCancelled] when the user dismisses the prompt.
type Picker interface {
	PickSong(ctx context.Context, songs []models.Song) (*models.Song, error)
	ChooseSavePath(ctx context.Context, suggested string) (string, error)
}

// StateWriter persists the "last played" slot.
type StateWriter interface {
	Set(state models.PlayerState) error
}

// Preferences supplies persisted user settings, falling back to the given defaults.
type Preferences interface {
	Volume(fallback float64) (float64, error)
	SavePath(fallback string) (string, error)
}

// PanelOpener shows a player state. Satisfied by player.Controller.
type PanelOpener interface {
	Open(ctx context.Context, state models.PlayerState) error
}

// EngineConfig holds the configured defaults the engine falls back to.
type EngineConfig struct {
	SavePath      string  // default download directory
	CacheDir      string  // destination directory for online playback
	DefaultVolume float64 // volume used when none was persisted
}

// SelectResult is the outcome of a completed selection.
type SelectResult struct {
	Song       models.Song        // Song the user picked
	Detail     *models.SongDetail // Resolved detail with its source URL
	Path       string             // Local file the player plays
	Downloaded bool               // Whether a transfer ran (false when the file already existed)
	State      models.PlayerState // State persisted and opened
}

// PlayerEngine wires the catalog, downloader, state store and panel into the selection flow.
type PlayerEngine struct {
	catalog  services.Catalog
	transfer services.Transfer
	picker   Picker
	store    StateWriter
	prefs    Preferences
	panel    PanelOpener
	cfg      EngineConfig
}

// NewPlayerEngine creates a new PlayerEngine with the provided collaborators.
func NewPlayerEngine(catalog services.Catalog, transfer services.Transfer, picker Picker, store StateWriter, prefs Preferences, panel PanelOpener, cfg EngineConfig) *PlayerEngine {
	return &PlayerEngine{
		catalog:  catalog,
		transfer: transfer,
		picker:   picker,
		store:    store,
		prefs:    prefs,
		panel:    panel,
		cfg:      cfg,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlayerEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Select runs the selection flow for mode and opens the player on success.
//
// Every failure is returned wrapped: [shared.ErrNetwork] and [shared.ErrNotFound] from the catalog,
// [shared.ErrTransfer] from the download, [shared.ErrUserCancelled] when a prompt is dismissed.
func (e *PlayerEngine) Select(ctx context.Context, mode Mode, progress chan<- ProgressUpdate) (*SelectResult, error) {
	if e.catalog == nil || e.transfer == nil || e.picker == nil {
		return nil, fmt.Errorf("%w: player engine not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchCatalogUpdate())
	songs, err := e.catalog.ListSongs(ctx)
	if err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: the catalog is empty", shared.ErrNotFound)
	}
	e.sendProgress(progress, catalogFetchedUpdate(len(songs)))

	song, err := e.picker.PickSong(ctx, songs)
	if err != nil {
		return nil, err
	}
	if song == nil {
		return nil, shared.ErrUserCancelled
	}

	e.sendProgress(progress, fetchDetailUpdate(*song))
	detail, err := e.catalog.GetSongDetail(ctx, song.CID)
	if err != nil {
		return nil, err
	}

	path, err := e.resolvePath(ctx, mode, song, detail)
	if err != nil {
		return nil, err
	}

	result := &SelectResult{Song: *song, Detail: detail, Path: path}

	cached := services.Exists(path)
	e.sendProgress(progress, resolvedPathUpdate(path, cached))
	if !cached {
		onProgress := func(p services.Progress) { e.sendProgress(progress, downloadUpdate(p)) }
		if err := e.transfer.Download(ctx, detail.SourceURL, path, onProgress); err != nil {
			return nil, err
		}
		result.Downloaded = true
	}

	volume := e.cfg.DefaultVolume
	if e.prefs != nil {
		if volume, err = e.prefs.Volume(e.cfg.DefaultVolume); err != nil {
			return nil, err
		}
	}

	state := models.NewPlayerState(detail, song.Artists, path, volume)
	result.State = state

	e.sendProgress(progress, persistUpdate(state))
	if e.store != nil {
		if err := e.store.Set(state); err != nil {
			return nil, fmt.Errorf("failed to persist player state: %w", err)
		}
	}

	e.sendProgress(progress, openPanelUpdate(state))
	if e.panel != nil {
		if err := e.panel.Open(ctx, state); err != nil {
			return result, err
		}
	}

	return result, nil
}

// resolvePath returns the destination file for the chosen song.
func (e *PlayerEngine) resolvePath(ctx context.Context, mode Mode, song *models.Song, detail *models.SongDetail) (string, error) {
	name := detail.Name
	if strings.TrimSpace(name) == "" {
		name = song.Name
	}
	filename := shared.SanitizeFilename(name) + shared.AudioExtension(detail.SourceURL)

	switch mode {
	case ModeOnline:
		return filepath.Join(shared.ExpandPath(e.cfg.CacheDir), filename), nil
	case ModeDownload:
		dir := e.cfg.SavePath
		if e.prefs != nil {
			saved, err := e.prefs.SavePath(e.cfg.SavePath)
			if err != nil {
				return "", err
			}
			dir = saved
		}

		chosen, err := e.picker.ChooseSavePath(ctx, filepath.Join(shared.ExpandPath(dir), filename))
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(chosen) == "" {
			return "", shared.ErrUserCancelled
		}
		return shared.ExpandPath(chosen), nil
	default:
		return "", fmt.Errorf("%w: unknown mode %d", shared.ErrInvalidArgument, mode)
	}
}
