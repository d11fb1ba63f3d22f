package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/siren/internal/repositories"
	"github.com/desertthunder/siren/internal/shared"
	"github.com/desertthunder/siren/internal/ui"
	"github.com/urfave/cli/v3"
)

// setting is one row of `settings list`.
type setting struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Default bool   `json:"default"`
}

// defaultSetting is the value a key has before anything was stored.
func (r *Runner) defaultSetting(key string) string {
	switch key {
	case repositories.KeyVolume:
		return strconv.FormatFloat(r.config.Player.DefaultVolume, 'f', -1, 64)
	case repositories.KeySavePath:
		return r.config.Download.SavePath
	default:
		return ""
	}
}

func (r *Runner) settings() ([]setting, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	stored, err := repositories.NewSettingsRepository(db).All()
	if err != nil {
		return nil, err
	}

	rows := make([]setting, 0, len(repositories.SettingKeys))
	for _, key := range repositories.SettingKeys {
		if value, ok := stored[key]; ok {
			rows = append(rows, setting{Key: key, Value: value})
			continue
		}
		rows = append(rows, setting{Key: key, Value: r.defaultSetting(key), Default: true})
	}
	return rows, nil
}

// SettingsList prints every known setting with its effective value.
func (r *Runner) SettingsList(ctx context.Context, cmd *cli.Command) error {
	rows, err := r.settings()
	if err != nil {
		return r.notify(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	for _, row := range rows {
		if row.Default {
			r.writePlain("%-10s %s %s\n", row.Key, row.Value, ui.Muted("(default)"))
		} else {
			r.writePlain("%-10s %s\n", row.Key, row.Value)
		}
	}
	return nil
}

// SettingsGet prints the effective value of one setting.
func (r *Runner) SettingsGet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	if key == "" {
		return r.notify(fmt.Errorf("%w: setting key is required", shared.ErrMissingArgument))
	}

	rows, err := r.settings()
	if err != nil {
		return r.notify(err)
	}
	for _, row := range rows {
		if row.Key == key {
			return r.writePlain("%s\n", row.Value)
		}
	}
	return r.notify(fmt.Errorf("%w: unknown setting %q", shared.ErrInvalidArgument, key))
}

// SettingsSet validates and stores one setting.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	value := cmd.StringArg("value")
	if key == "" || value == "" {
		return r.notify(fmt.Errorf("%w: usage: siren settings set <key> <value>", shared.ErrMissingArgument))
	}

	db, err := r.database()
	if err != nil {
		return r.notify(err)
	}

	if err := repositories.NewSettingsRepository(db).Set(key, value); err != nil {
		return r.notify(err)
	}
	r.logger.Debug("setting stored", "key", key, "value", value)
	return r.writePlain("%s\n", ui.Info(fmt.Sprintf("%s = %s", key, value)))
}

// SettingsUnset removes a stored setting so its default applies again.
func (r *Runner) SettingsUnset(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	if key == "" {
		return r.notify(fmt.Errorf("%w: setting key is required", shared.ErrMissingArgument))
	}

	db, err := r.database()
	if err != nil {
		return r.notify(err)
	}

	if err := repositories.NewSettingsRepository(db).Delete(key); err != nil {
		return r.notify(err)
	}
	r.logger.Debug("setting removed", "key", key)
	return r.writePlain("%s\n", ui.Info(fmt.Sprintf("%s reset to %s", key, r.defaultSetting(key))))
}
