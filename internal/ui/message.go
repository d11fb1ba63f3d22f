package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/siren/internal/models"
)

// MsgKind enumerates all message types in the pickers.
type MsgKind int

// Msg represents all possible picker messages (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongChosen MsgKind = iota
	MsgPathChosen
	MsgCancelled
)

// songChosenMsg is the constructor for [MsgSongChosen]
func songChosenMsg(song models.Song) Msg {
	return Msg{kind: MsgSongChosen, data: song}
}

// pathChosenMsg is the constructor for [MsgPathChosen]
func pathChosenMsg(path string) Msg {
	return Msg{kind: MsgPathChosen, data: path}
}

// cancelledMsg is the constructor for [MsgCancelled]
func cancelledMsg() Msg {
	return Msg{kind: MsgCancelled}
}

func send(msg Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
