package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

// SongPicker is a filterable list of catalog songs.
type SongPicker struct {
	list      list.Model
	help      help.Model
	keys      keyMap
	chosen    *models.Song
	cancelled bool
}

// NewSongPicker creates a picker over songs in catalog order.
func NewSongPicker(songs []models.Song) *SongPicker {
	l := list.New(songItems(songs), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a song"
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return &SongPicker{list: l, help: help.New(), keys: newKeyMap()}
}

func (m *SongPicker) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the picker state.
func (m *SongPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgSongChosen:
			song := msg.data.(models.Song)
			m.chosen = &song
		case MsgCancelled:
			m.cancelled = true
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, send(cancelledMsg())
		case key.Matches(msg, m.keys.back):
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, send(cancelledMsg())
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.list.SelectedItem().(songItem); ok {
				return m, send(songChosenMsg(item.song))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *SongPicker) View() string {
	return fmt.Sprintf("%s\n%s", m.list.View(), m.help.ShortHelpView(m.keys.ShortHelp()))
}

// Chosen returns the picked song, or nil when the picker was dismissed.
func (m *SongPicker) Chosen() *models.Song {
	return m.chosen
}

// SavePathPrompt asks for the destination file, pre-filled with a suggestion.
type SavePathPrompt struct {
	input     textinput.Model
	help      help.Model
	keys      keyMap
	chosen    string
	cancelled bool
}

// NewSavePathPrompt creates a prompt with suggested as its initial value.
func NewSavePathPrompt(suggested string) *SavePathPrompt {
	ti := textinput.New()
	ti.Prompt = "Save as: "
	ti.SetValue(suggested)
	ti.CursorEnd()
	ti.Focus()

	return &SavePathPrompt{input: ti, help: help.New(), keys: newKeyMap()}
}

func (m *SavePathPrompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the prompt state.
func (m *SavePathPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Msg:
		switch msg.kind {
		case MsgPathChosen:
			m.chosen = msg.data.(string)
		case MsgCancelled:
			m.cancelled = true
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			return m, send(pathChosenMsg(strings.TrimSpace(m.input.Value())))
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, send(cancelledMsg())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *SavePathPrompt) View() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", Title("Save downloaded song"), m.input.View(), helpView)
}

// Chosen returns the entered path; empty when dismissed or cleared.
func (m *SavePathPrompt) Chosen() string {
	return m.chosen
}

// TerminalPicker runs the pickers as bubbletea programs. It satisfies tasks.Picker.
type TerminalPicker struct {
	opts []tea.ProgramOption
}

// NewTerminalPicker creates a picker; opts are passed to every program (input/output overrides in tests).
func NewTerminalPicker(opts ...tea.ProgramOption) *TerminalPicker {
	return &TerminalPicker{opts: opts}
}

// PickSong shows the song list and returns the selection.
func (p *TerminalPicker) PickSong(ctx context.Context, songs []models.Song) (*models.Song, error) {
	final, err := p.run(ctx, NewSongPicker(songs), tea.WithAltScreen())
	if err != nil {
		return nil, err
	}

	chosen := final.(*SongPicker).Chosen()
	if chosen == nil {
		return nil, fmt.Errorf("%w: no song selected", shared.ErrUserCancelled)
	}
	return chosen, nil
}

// ChooseSavePath prompts for a destination; an empty result means the user cancelled.
func (p *TerminalPicker) ChooseSavePath(ctx context.Context, suggested string) (string, error) {
	final, err := p.run(ctx, NewSavePathPrompt(suggested))
	if err != nil {
		return "", err
	}
	return final.(*SavePathPrompt).Chosen(), nil
}

func (p *TerminalPicker) run(ctx context.Context, model tea.Model, extra ...tea.ProgramOption) (tea.Model, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts...)
	opts = append(opts, extra...)

	final, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("%w: %v", shared.ErrUserCancelled, err)
	}
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}
	return final, nil
}
