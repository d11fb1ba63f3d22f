package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

const slotID = 1

// StateRepository persists the single "last played" [models.PlayerState].
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new StateRepository with the given database connection
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get returns the persisted state, or nil when the slot has never been written or was cleared.
func (r *StateRepository) Get() (*models.PlayerState, error) {
	query := `
		SELECT name, artists, source_url, file_path, is_playing, position, duration, volume
		FROM player_state
		WHERE id = ?
	`

	var (
		state   models.PlayerState
		artists string
	)
	err := r.db.QueryRow(query, slotID).Scan(
		&state.Name,
		&artists,
		&state.SourceURL,
		&state.FilePath,
		&state.IsPlaying,
		&state.CurrentTime,
		&state.Duration,
		&state.Volume,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read player state: %w", err)
	}

	if err := json.Unmarshal([]byte(artists), &state.Artists); err != nil {
		return nil, fmt.Errorf("failed to decode artists: %w", err)
	}

	return &state, nil
}

// Set overwrites the slot with state and mirrors its volume into the volume setting.
//
// No merge and no validation: the store holds whatever was reported last.
func (r *StateRepository) Set(state models.PlayerState) error {
	artists := state.Artists
	if artists == nil {
		artists = []string{}
	}
	encoded, err := json.Marshal(artists)
	if err != nil {
		return fmt.Errorf("failed to encode artists: %w", err)
	}

	query := `
		INSERT INTO player_state (id, name, artists, source_url, file_path, is_playing, position, duration, volume, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			artists = excluded.artists,
			source_url = excluded.source_url,
			file_path = excluded.file_path,
			is_playing = excluded.is_playing,
			position = excluded.position,
			duration = excluded.duration,
			volume = excluded.volume,
			updated_at = excluded.updated_at
	`

	return withTx(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(query,
			slotID,
			state.Name,
			string(encoded),
			state.SourceURL,
			state.FilePath,
			state.IsPlaying,
			state.CurrentTime,
			state.Duration,
			state.Volume,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to write player state: %w", err)
		}
		return putSetting(tx, KeyVolume, formatFloat(state.Volume))
	})
}

// SetVolume records a volume change in the volume setting and, when a slot exists, in the slot.
func (r *StateRepository) SetVolume(volume float64) error {
	if !models.ValidVolume(volume) {
		return fmt.Errorf("%w: volume must be within 0..1, got %v", shared.ErrInvalidArgument, volume)
	}

	return withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE player_state SET volume = ?, updated_at = ? WHERE id = ?", volume, time.Now(), slotID); err != nil {
			return fmt.Errorf("failed to update slot volume: %w", err)
		}
		return putSetting(tx, KeyVolume, formatFloat(volume))
	})
}

// Clear empties the slot. The volume setting is kept as the default for future panels.
func (r *StateRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM player_state WHERE id = ?", slotID); err != nil {
		return fmt.Errorf("failed to clear player state: %w", err)
	}
	return nil
}
