// Package models defines the domain entities shared by the catalog client, the state store and the player.
//
// The package contains two categories of types:
//
// 1. Catalog DTOs: immutable values decoded from the remote catalog
//   - [Song] : catalog entry shown in the picker
//   - [SongDetail] : resolved playable source for one song
//
// 2. Session state: the single "last played" record
//   - [PlayerState] : name, artists, source, playing flag, position, duration and volume
//
// Exactly one [PlayerState] is persisted at a time; the repositories package enforces the slot.
package models
