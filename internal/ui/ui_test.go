package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/siren/internal/models"
)

// drive feeds msg to m and then the message produced by the returned command, like the bubbletea runtime would.
func drive(m tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	if cmd == nil {
		return next, nil
	}
	if out, ok := cmd().(Msg); ok {
		return next.Update(out)
	}
	return next, cmd
}

func testSongs() []models.Song {
	return []models.Song{
		{CID: "c1", Name: "Track", Artists: []string{"A"}},
		{CID: "c2", Name: "Other", Artists: []string{"B", "C"}},
	}
}

func TestSongPicker(t *testing.T) {
	t.Run("Enter Chooses Selected Song", func(t *testing.T) {
		m := NewSongPicker(testSongs())
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		m.Update(tea.KeyMsg{Type: tea.KeyDown})
		_, cmd := drive(m, tea.KeyMsg{Type: tea.KeyEnter})

		if m.Chosen() == nil || m.Chosen().CID != "c2" {
			t.Fatalf("expected c2, got %+v", m.Chosen())
		}
		if cmd == nil {
			t.Error("expected quit command")
		}
	})

	t.Run("Escape Cancels", func(t *testing.T) {
		m := NewSongPicker(testSongs())

		drive(m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.Chosen() != nil || !m.cancelled {
			t.Error("expected picker to be cancelled")
		}
	})

	t.Run("Q Cancels", func(t *testing.T) {
		m := NewSongPicker(testSongs())

		drive(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if !m.cancelled {
			t.Error("expected picker to be cancelled")
		}
	})

	t.Run("Empty Catalog Enter Does Nothing", func(t *testing.T) {
		m := NewSongPicker(nil)

		drive(m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.Chosen() != nil || m.cancelled {
			t.Error("expected no decision")
		}
	})

	t.Run("View Lists Songs", func(t *testing.T) {
		m := NewSongPicker(testSongs())
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		view := m.View()
		for _, want := range []string{"Select a song", "Track", "B, C"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q", want)
			}
		}
	})
}

func TestSavePathPrompt(t *testing.T) {
	t.Run("Enter Accepts Suggestion", func(t *testing.T) {
		m := NewSavePathPrompt("/music/Track.mp3")

		drive(m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.Chosen() != "/music/Track.mp3" {
			t.Errorf("expected suggestion, got %q", m.Chosen())
		}
	})

	t.Run("Typing Edits Path", func(t *testing.T) {
		m := NewSavePathPrompt("/music/Track")

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(".wav")})
		drive(m, tea.KeyMsg{Type: tea.KeyEnter})
		if m.Chosen() != "/music/Track.wav" {
			t.Errorf("expected edited path, got %q", m.Chosen())
		}
	})

	t.Run("Escape Cancels With Empty Path", func(t *testing.T) {
		m := NewSavePathPrompt("/music/Track.mp3")

		drive(m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.Chosen() != "" || !m.cancelled {
			t.Error("expected cancellation")
		}
	})
}

func TestNotices(t *testing.T) {
	tc := []struct {
		render func(string) string
		msg    string
	}{
		{Info, "Song saved"},
		{Warning, "Selection cancelled"},
		{Error, "catalog request failed"},
	}
	for _, tt := range tc {
		if out := tt.render(tt.msg); !strings.Contains(out, tt.msg) {
			t.Errorf("notice %q missing message %q", out, tt.msg)
		}
	}
}

func TestSongItem(t *testing.T) {
	item := songItem{song: models.Song{CID: "c9", Name: "Solo"}}

	if item.Description() != "c9" {
		t.Errorf("expected cid fallback, got %q", item.Description())
	}
	if item.FilterValue() != "Solo " {
		t.Errorf("unexpected filter value %q", item.FilterValue())
	}
}
