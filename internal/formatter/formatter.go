// package formatter renders catalog listings, song details and the player state as csv, markdown, json or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

// Format names accepted by [Songs].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// Formats lists the supported listing formats.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// Songs renders a catalog listing in format.
func Songs(songs []models.Song, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return ExportToText(songs)
	case FormatCSV:
		return ExportToCSV(songs)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(songs)
	case FormatJSON:
		return ExportToJSON(songs)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ExportToCSV converts songs to CSV with columns: CID, Name, Artists, AlbumCID. Artists are joined with "; ".
func ExportToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"CID", "Name", "Artists", "AlbumCID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.CID,
			song.Name,
			strings.Join(song.Artists, "; "),
			song.AlbumCID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts songs to a Markdown table
func ExportToMarkdown(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Songs\n\n")
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(songs))

	buf.WriteString("| # | Name | Artists | CID |\n")
	buf.WriteString("|---|------|---------|-----|\n")
	for i, song := range songs {
		fmt.Fprintf(&buf, "| %d | %s | %s | `%s` |\n", i+1, escapeCell(song.Name), escapeCell(song.ArtistLine()), song.CID)
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to a numbered plain text list
func ExportToText(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Songs: %d\n\n", len(songs))
	for i, song := range songs {
		if len(song.Artists) == 0 {
			fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, song.Name, song.CID)
			continue
		}
		fmt.Fprintf(&buf, "%d. %s - %s [%s]\n", i+1, song.ArtistLine(), song.Name, song.CID)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts songs to an indented JSON array in the catalog's field names
func ExportToJSON(songs []models.Song) ([]byte, error) {
	if songs == nil {
		songs = []models.Song{}
	}
	return marshalIndent(songs)
}

// Detail renders a song detail as plain text, or JSON when asJSON is set.
func Detail(detail *models.SongDetail, asJSON bool) ([]byte, error) {
	if asJSON {
		return marshalIndent(detail)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Name:    %s\n", detail.Name)
	fmt.Fprintf(&buf, "CID:     %s\n", detail.CID)
	if len(detail.Artists) > 0 {
		fmt.Fprintf(&buf, "Artists: %s\n", strings.Join(detail.Artists, ", "))
	}
	if detail.AlbumCID != "" {
		fmt.Fprintf(&buf, "Album:   %s\n", detail.AlbumCID)
	}
	fmt.Fprintf(&buf, "Source:  %s\n", detail.SourceURL)
	fmt.Fprintf(&buf, "File:    %s\n", shared.SanitizeFilename(detail.Name)+shared.AudioExtension(detail.SourceURL))
	if detail.LyricURL != "" {
		fmt.Fprintf(&buf, "Lyrics:  %s\n", detail.LyricURL)
	}
	if detail.MvURL != "" {
		fmt.Fprintf(&buf, "Video:   %s\n", detail.MvURL)
	}
	return buf.Bytes(), nil
}

// State renders the persisted player state as plain text, or JSON when asJSON is set.
func State(state *models.PlayerState, asJSON bool) ([]byte, error) {
	if asJSON {
		return marshalIndent(state)
	}

	status := "paused"
	if state.IsPlaying {
		status = "playing"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Track:    %s\n", state.Title())
	fmt.Fprintf(&buf, "Status:   %s\n", status)
	fmt.Fprintf(&buf, "Position: %s / %s\n", shared.FormatSeconds(state.CurrentTime), shared.FormatSeconds(state.Duration))
	fmt.Fprintf(&buf, "Volume:   %.0f%%\n", state.Volume*100)
	fmt.Fprintf(&buf, "Source:   %s\n", state.SourceURL)
	if state.FilePath != "" {
		fmt.Fprintf(&buf, "File:     %s\n", state.FilePath)
	}
	return buf.Bytes(), nil
}

// WriteExport writes data to path, creating parent directories.
func WriteExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
