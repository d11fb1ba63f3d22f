// package models defines the data model for the siren player
package models

import (
	"fmt"
	"strings"
)

// Song is a catalog entry as published by the server.
type Song struct {
	CID      string   `json:"cid"`
	Name     string   `json:"name"`
	AlbumCID string   `json:"albumCid"`
	Artists  []string `json:"artists"`
}

// ArtistLine joins the artists for display.
func (s Song) ArtistLine() string {
	return strings.Join(s.Artists, ", ")
}

// SongDetail is a song resolved to its playable source.
type SongDetail struct {
	CID       string   `json:"cid"`
	Name      string   `json:"name"`
	AlbumCID  string   `json:"albumCid"`
	SourceURL string   `json:"sourceUrl"`
	LyricURL  string   `json:"lyricUrl,omitempty"`
	MvURL     string   `json:"mvUrl,omitempty"`
	Artists   []string `json:"artists"`
}

// Playable reports whether the detail carries a source URL.
func (d *SongDetail) Playable() bool {
	return d != nil && strings.TrimSpace(d.SourceURL) != ""
}

// PlayerState is the currently relevant playback session.
//
// FilePath is the local file materialized by a download; when empty the surface streams SourceURL.
type PlayerState struct {
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	SourceURL   string   `json:"sourceUrl"`
	FilePath    string   `json:"filePath,omitempty"`
	IsPlaying   bool     `json:"isPlaying"`
	CurrentTime float64  `json:"currentTime"`
	Duration    float64  `json:"duration"`
	Volume      float64  `json:"volume"`
}

// NewPlayerState builds the state recorded when a selection completes: playing from the start.
func NewPlayerState(detail *SongDetail, artists []string, filePath string, volume float64) PlayerState {
	if len(detail.Artists) > 0 {
		artists = detail.Artists
	}
	owned := make([]string, len(artists))
	copy(owned, artists)

	return PlayerState{
		Name:        detail.Name,
		Artists:     owned,
		SourceURL:   detail.SourceURL,
		FilePath:    filePath,
		IsPlaying:   true,
		CurrentTime: 0,
		Duration:    0,
		Volume:      volume,
	}
}

// Normalize replaces nil artists with an empty list, the form the store reads back.
func (p *PlayerState) Normalize() {
	if p.Artists == nil {
		p.Artists = []string{}
	}
}

// Title is the display line for the state: "Name - Artist, Artist".
func (p PlayerState) Title() string {
	if len(p.Artists) == 0 {
		return p.Name
	}
	return fmt.Sprintf("%s - %s", p.Name, strings.Join(p.Artists, ", "))
}

// ValidVolume reports whether v is a usable element volume.
func ValidVolume(v float64) bool {
	return v >= 0 && v <= 1
}
