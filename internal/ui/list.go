package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/siren/internal/models"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string {
	return i.song.Name + " " + strings.Join(i.song.Artists, " ")
}

func (i songItem) Title() string { return i.song.Name }

func (i songItem) Description() string {
	if len(i.song.Artists) == 0 {
		return i.song.CID
	}
	return i.song.ArtistLine()
}

func songItems(songs []models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}
