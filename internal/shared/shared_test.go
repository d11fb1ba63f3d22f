package shared

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Track", want: "Track"},
		{name: "separators", input: "A/B\\C", want: "A_B_C"},
		{name: "reserved", input: `Why?: "no" <x>|*`, want: "Why__ _no_ _x___"},
		{name: "parent path", input: "../etc", want: "_etc"},
		{name: "hidden", input: ".hidden", want: "hidden"},
		{name: "empty", input: "   ", want: "untitled"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAudioExtension(t *testing.T) {
	tc := []struct {
		url  string
		want string
	}{
		{"https://x/a.mp3", ".mp3"},
		{"https://x/a.MP3", ".mp3"},
		{"https://x/a.wav", ".wav"},
		{"https://x/a", ".wav"},
	}

	for _, tt := range tc {
		if got := AudioExtension(tt.url); got != tt.want {
			t.Errorf("AudioExtension(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tc := []struct {
		in   float64
		want string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{-1, "00:00"},
		{math.NaN(), "00:00"},
	}

	for _, tt := range tc {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "siren.log")

	logger, closer, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Info("hello")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := closer.Close(); !errors.Is(err, os.ErrClosed) {
		t.Errorf("expected the file to be released, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string, got %q", a)
	}
}
