package player

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/siren/internal/shared"
)

func TestDecodeMessage(t *testing.T) {
	t.Run("Valid Messages", func(t *testing.T) {
		tc := []struct {
			raw  string
			want MessageType
		}{
			{`{"type":"getState"}`, TypeGetState},
			{`{"type":"setVolume","value":0.5}`, TypeSetVolume},
			{`{"type":"setVolume","value":0}`, TypeSetVolume},
			{`{"type":"updateState","state":{"name":"Track","artists":["A"],"sourceUrl":"u","isPlaying":true,"currentTime":3,"duration":9,"volume":1}}`, TypeUpdateState},
		}
		for _, tt := range tc {
			msg, err := DecodeMessage([]byte(tt.raw))
			if err != nil {
				t.Errorf("DecodeMessage(%s) error = %v", tt.raw, err)
				continue
			}
			if msg.Type != tt.want {
				t.Errorf("expected %s, got %s", tt.want, msg.Type)
			}
		}
	})

	t.Run("Zero Volume Is Present", func(t *testing.T) {
		msg, err := DecodeMessage([]byte(`{"type":"setVolume","value":0}`))
		if err != nil {
			t.Fatalf("DecodeMessage() error = %v", err)
		}
		if msg.Value == nil || *msg.Value != 0 {
			t.Errorf("expected value 0, got %v", msg.Value)
		}
	})

	t.Run("Missing Artists Decode As Empty", func(t *testing.T) {
		for _, raw := range []string{
			`{"type":"updateState","state":{"name":"Track","sourceUrl":"u","volume":1}}`,
			`{"type":"updateState","state":{"name":"Track","artists":null,"sourceUrl":"u","volume":1}}`,
		} {
			msg, err := DecodeMessage([]byte(raw))
			if err != nil {
				t.Fatalf("DecodeMessage(%s) error = %v", raw, err)
			}
			if msg.State.Artists == nil || len(msg.State.Artists) != 0 {
				t.Errorf("DecodeMessage(%s) artists = %#v, want empty", raw, msg.State.Artists)
			}
		}
	})

	t.Run("Invalid Messages", func(t *testing.T) {
		tc := []string{
			`not json`,
			`{"type":"updateState"}`,
			`{"type":"setVolume"}`,
			`{"type":"dance"}`,
			`{}`,
		}
		for _, raw := range tc {
			if _, err := DecodeMessage([]byte(raw)); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("DecodeMessage(%s) expected ErrInvalidInput, got %v", raw, err)
			}
		}
	})
}

func TestMessageEncode(t *testing.T) {
	data, err := Play(trackState()).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	s := string(data)
	for _, want := range []string{`"type":"play"`, `"sourceUrl":"https://x/a.mp3"`, `"currentTime":0`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded message %s missing %s", s, want)
		}
	}
	if strings.Contains(s, `"value"`) {
		t.Errorf("play message should omit value: %s", s)
	}

	decoded, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	if decoded.State.Name != "Track" {
		t.Errorf("unexpected name %q", decoded.State.Name)
	}
}
