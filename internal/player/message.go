package player

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

// MessageType discriminates [Message] payloads.
type MessageType string

const (
	TypePlay         MessageType = "play"
	TypeSetVolume    MessageType = "setVolume"
	TypeUpdateState  MessageType = "updateState"
	TypeGetState     MessageType = "getState"
	TypeRestoreState MessageType = "restoreState"
	TypeReveal       MessageType = "reveal"
)

// Message is a single controller/surface exchange.
type Message struct {
	Type  MessageType         `json:"type"`
	State *models.PlayerState `json:"state,omitempty"`
	Value *float64            `json:"value,omitempty"`

	// AudioURL is filled in by surfaces that serve local files under their own address.
	AudioURL string `json:"audioUrl,omitempty"`
}

// Play asks the surface to switch to state and start playback.
func Play(state models.PlayerState) Message {
	return Message{Type: TypePlay, State: &state}
}

// RestoreState answers a [GetState] request with the persisted state.
func RestoreState(state models.PlayerState) Message {
	return Message{Type: TypeRestoreState, State: &state}
}

// Reveal asks the surface to bring itself to the front.
func Reveal() Message {
	return Message{Type: TypeReveal}
}

// UpdateState reports the live playback state.
func UpdateState(state models.PlayerState) Message {
	return Message{Type: TypeUpdateState, State: &state}
}

// GetState asks the controller for the persisted state.
func GetState() Message {
	return Message{Type: TypeGetState}
}

// SetVolume reports a volume change.
func SetVolume(v float64) Message {
	return Message{Type: TypeSetVolume, Value: &v}
}

// Encode marshals m to its JSON wire form.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", m.Type, err)
	}
	return data, nil
}

// DecodeMessage parses a JSON message and checks that the fields its type requires are present.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("%w: malformed message: %v", shared.ErrInvalidInput, err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	if m.State != nil {
		m.State.Normalize()
	}
	return m, nil
}

// Validate reports a wrapped [shared.ErrInvalidInput] when m is missing a field its type requires.
func (m Message) Validate() error {
	switch m.Type {
	case TypePlay, TypeUpdateState, TypeRestoreState:
		if m.State == nil {
			return fmt.Errorf("%w: %s message without state", shared.ErrInvalidInput, m.Type)
		}
	case TypeSetVolume:
		if m.Value == nil {
			return fmt.Errorf("%w: setVolume message without value", shared.ErrInvalidInput)
		}
	case TypeGetState, TypeReveal:
	default:
		return fmt.Errorf("%w: unknown message type %q", shared.ErrInvalidInput, m.Type)
	}
	return nil
}
