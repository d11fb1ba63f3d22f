package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/siren/internal/shared"
	"github.com/desertthunder/siren/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupDatabase writes a config file from the template when missing, then initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := shared.ExpandPath(r.configPath)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := r.loadConfig(configPath); err != nil {
				r.logger.Warn("failed to load config, using defaults", "error", err)
			}
		} else {
			r.logger.Info("config file not found, creating from template", "path", configPath)
			if err := shared.CreateConfigFile(configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else {
				r.logger.Info("config file created", "path", configPath)
			}
		}
	}

	if r.db != nil {
		r.Close()
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.database()
	if err != nil {
		return r.notify(fmt.Errorf("failed to set up database: %w", err))
	}

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return r.notify(err)
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("%s\n", ui.Info(fmt.Sprintf("Database ready at %s (schema version %d)", shared.ExpandPath(r.config.Database.Path), version)))
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return r.notify(err)
	}

	if err := shared.RollbackMigration(db); err != nil {
		return r.notify(err)
	}

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return r.notify(err)
	}
	r.logger.Info("rolled back migration", "version", version)
	return r.writePlain("%s\n", ui.Warning(fmt.Sprintf("Rolled back to schema version %d", version)))
}
