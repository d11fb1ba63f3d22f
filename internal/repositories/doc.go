// Package repositories implements SQLite persistence for the player's two durable channels.
//
// Key Implementations:
//   - [StateRepository] : the single-slot "last played" [models.PlayerState]
//   - [SettingsRepository] : global key/value configuration (save_path, volume)
//
// The slot is a single row (id = 1, enforced by a CHECK constraint), so writes are
// last-write-wins upserts and there is never more than one record.
//
// Volume has one source of truth: every write that carries a volume, whether a full state
// report or a bare volume change, updates the slot and the "volume" setting in the same
// transaction. Newly opened panels read their default from the setting, which therefore
// always matches the last persisted playback volume.
package repositories
