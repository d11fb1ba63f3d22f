package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/siren/internal/player"
	"github.com/desertthunder/siren/internal/repositories"
	"github.com/desertthunder/siren/internal/server"
	"github.com/desertthunder/siren/internal/services"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/desertthunder/siren/internal/tasks"
	"github.com/desertthunder/siren/internal/ui"
	"github.com/urfave/cli/v3"
)

// PanelHost is a [player.PanelHost] that can be stopped once the player closes.
type PanelHost interface {
	player.PanelHost
	URL() string
	Shutdown(ctx context.Context) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logFile    string
	logger     *log.Logger
	output     io.Writer
	catalog    services.Catalog
	transfer   services.Transfer
	picker     tasks.Picker
	host       PanelHost
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalog, Transfer, Picker, Host and DB are built from Config on first use when left nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	LogFile    string // receives logs while a picker owns the terminal; empty keeps Logger
	Catalog    services.Catalog
	Transfer   services.Transfer
	Picker     tasks.Picker
	Host       PanelHost
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logFile:    opts.LogFile,
		logger:     opts.Logger,
		output:     opts.Output,
		catalog:    opts.Catalog,
		transfer:   opts.Transfer,
		picker:     opts.Picker,
		host:       opts.Host,
		db:         opts.DB,
	}
}

// SetLogger replaces the logger used by commands and by services created afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// loadConfig reads path into the runner. A missing file keeps the defaults.
func (r *Runner) loadConfig(path string) error {
	r.configPath = path
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	r.config = config
	return nil
}

// Close releases the database connection, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) catalogService() services.Catalog {
	if r.catalog == nil {
		client := &http.Client{Timeout: r.config.Catalog.Timeout}
		r.catalog = services.NewCatalogService(services.NewAPIService(r.config.Catalog.BaseURL, client))
	}
	return r.catalog
}

func (r *Runner) transferService() services.Transfer {
	if r.transfer == nil {
		client := &http.Client{Timeout: r.config.Download.Timeout}
		r.transfer = services.NewDownloader(client, r.config.Download.ProgressRate)
	}
	return r.transfer
}

func (r *Runner) songPicker() tasks.Picker {
	if r.picker == nil {
		r.picker = ui.NewTerminalPicker()
	}
	return r.picker
}

func (r *Runner) panelHost() (PanelHost, error) {
	if r.host == nil {
		host, err := server.NewPanelServer(r.config.Server, r.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create player server: %w", err)
		}
		r.host = host
	}
	return r.host, nil
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
	}
	return r.db, nil
}

// session bundles the stores and the controller a player command works with.
type session struct {
	state    *repositories.StateRepository
	settings *repositories.SettingsRepository
	host     PanelHost
	ctrl     *player.Controller
}

func (r *Runner) newSession() (*session, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	host, err := r.panelHost()
	if err != nil {
		return nil, err
	}

	state := repositories.NewStateRepository(db)
	return &session{
		state:    state,
		settings: repositories.NewSettingsRepository(db),
		host:     host,
		ctrl:     player.NewController(host, state, r.logger),
	}, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		selectCommand, onlineCommand, playerCommand, songsCommand, stateCommand, settingsCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// notify turns a command failure into a one-shot notice. Cancellation is a warning, anything else an error.
func (r *Runner) notify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, shared.ErrUserCancelled) {
		r.logger.Debug("cancelled", "reason", err)
		return r.writePlain("%s\n", ui.Warning(noticeText(err)))
	}

	r.logger.Debug("command failed", "error", err)
	return r.writePlain("%s\n", ui.Error(noticeText(err)))
}

func noticeText(err error) string {
	switch {
	case errors.Is(err, shared.ErrUserCancelled):
		return "Cancelled"
	case errors.Is(err, shared.ErrNetwork):
		return fmt.Sprintf("Failed to reach the song catalog: %v", err)
	case errors.Is(err, shared.ErrNotFound):
		return fmt.Sprintf("Song unavailable: %v", err)
	case errors.Is(err, shared.ErrTransfer):
		return fmt.Sprintf("Download failed: %v", err)
	case errors.Is(err, shared.ErrServiceUnavailable):
		return fmt.Sprintf("Player unavailable: %v", err)
	default:
		return err.Error()
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
