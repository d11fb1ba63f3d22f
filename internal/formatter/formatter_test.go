package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
	th "github.com/desertthunder/siren/internal/testing"
)

func sampleSongs() []models.Song {
	return []models.Song{
		{CID: "c1", Name: "Track", AlbumCID: "a1", Artists: []string{"A"}},
		{CID: "c2", Name: "Duet | Live", AlbumCID: "a1", Artists: []string{"B", "C"}},
		{CID: "c3", Name: "Nobody"},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleSongs())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "CID,Name,Artists,AlbumCID" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 4 {
			t.Fatalf("expected 4 lines, got %d", len(lines))
		}
		if lines[2] != "c2,Duet | Live,B; C,a1" {
			t.Errorf("unexpected record %q", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleSongs())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"# Songs", "**Songs**: 3", "| 1 | Track | A | `c1` |", `Duet \| Live`} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q", want)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleSongs())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"Songs: 3", "1. A - Track [c1]", "2. B, C - Duet | Live [c2]", "3. Nobody [c3]"} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q", want)
			}
		}
	})

	t.Run("ExportToJSON Keeps Catalog Field Names", func(t *testing.T) {
		data, err := ExportToJSON(sampleSongs())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"albumCid": "a1"`) {
			t.Errorf("expected albumCid field, got %s", data)
		}

		var decoded []models.Song
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if !reflect.DeepEqual(decoded, sampleSongs()) {
			t.Errorf("decoded %+v", decoded)
		}
	})

	t.Run("ExportToJSON Empty", func(t *testing.T) {
		data, _ := ExportToJSON(nil)
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("expected empty array, got %s", data)
		}
	})
}

func TestSongs(t *testing.T) {
	t.Run("Dispatches Formats", func(t *testing.T) {
		for _, format := range append(Formats, "", "MD", "markdown") {
			if _, err := Songs(sampleSongs(), format); err != nil {
				t.Errorf("Songs(%q) error = %v", format, err)
			}
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := Songs(sampleSongs(), "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestDetail(t *testing.T) {
	detail := &models.SongDetail{CID: "c1", Name: "Track", SourceURL: "https://x/a.mp3", Artists: []string{"A"}, LyricURL: "https://x/a.lrc"}

	t.Run("Text", func(t *testing.T) {
		data, err := Detail(detail, false)
		if err != nil {
			t.Fatalf("Detail failed: %v", err)
		}
		output := string(data)
		for _, want := range []string{"Name:    Track", "Source:  https://x/a.mp3", "File:    Track.mp3", "Lyrics:  https://x/a.lrc"} {
			if !strings.Contains(output, want) {
				t.Errorf("detail missing %q", want)
			}
		}
		if strings.Contains(output, "Video:") {
			t.Error("empty video URL should be omitted")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, _ := Detail(detail, true)
		if !strings.Contains(string(data), `"sourceUrl": "https://x/a.mp3"`) {
			t.Errorf("unexpected JSON %s", data)
		}
	})
}

func TestState(t *testing.T) {
	state := &models.PlayerState{
		Name:        "Track",
		Artists:     []string{"A"},
		SourceURL:   "https://x/a.mp3",
		IsPlaying:   false,
		CurrentTime: 61,
		Duration:    180,
		Volume:      0.5,
	}

	data, err := State(state, false)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	output := string(data)
	for _, want := range []string{"Track:    Track - A", "Status:   paused", "Position: 01:01 / 03:00", "Volume:   50%"} {
		if !strings.Contains(output, want) {
			t.Errorf("state missing %q", want)
		}
	}
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "songs.csv")

	if err := WriteExport(path, []byte("CID\n")); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}
	if got := th.MustReadFile(t, path); got != "CID\n" {
		t.Errorf("unexpected content %q", got)
	}
}
