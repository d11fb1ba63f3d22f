package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

// Settings keys
const (
	KeyVolume   = "volume"
	KeySavePath = "save_path"
)

// SettingKeys lists the keys the settings command accepts.
var SettingKeys = []string{KeySavePath, KeyVolume}

// SettingsRepository is the global key/value configuration store.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value for key and whether it was set.
func (r *SettingsRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes key after validating known keys.
//
// Volume goes through [StateRepository.SetVolume] so the slot stays in step.
func (r *SettingsRepository) Set(key, value string) error {
	switch key {
	case KeyVolume:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || !models.ValidVolume(v) {
			return fmt.Errorf("%w: volume must be a number within 0..1, got %q", shared.ErrInvalidArgument, value)
		}
		return NewStateRepository(r.db).SetVolume(v)
	case KeySavePath:
		if value == "" {
			return fmt.Errorf("%w: save_path cannot be empty", shared.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", shared.ErrInvalidArgument, key)
	}
	return putSetting(r.db, key, value)
}

// Delete removes key so its default applies again.
func (r *SettingsRepository) Delete(key string) error {
	if !slices.Contains(SettingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", shared.ErrInvalidArgument, key)
	}
	if _, err := r.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// All returns every stored setting keyed by name.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// Volume returns the stored volume, or fallback when unset or unreadable.
func (r *SettingsRepository) Volume(fallback float64) (float64, error) {
	value, ok, err := r.Get(KeyVolume)
	if err != nil || !ok {
		return fallback, err
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil || !models.ValidVolume(v) {
		return fallback, nil
	}
	return v, nil
}

// SavePath returns the stored save directory, or fallback when unset.
func (r *SettingsRepository) SavePath(fallback string) (string, error) {
	value, ok, err := r.Get(KeySavePath)
	if err != nil || !ok || value == "" {
		return fallback, err
	}
	return value, nil
}
