package tasks

import (
	"fmt"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCatalog Phase = iota
	FetchDetail
	ResolvePath
	Download
	Persist
	OpenPanel
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch_catalog"
	case FetchDetail:
		return "fetch_detail"
	case ResolvePath:
		return "resolve_path"
	case Download:
		return "download"
	case Persist:
		return "persist"
	case OpenPanel:
		return "open_panel"
	default:
		return ""
	}
}

func fetchCatalogUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    1,
		Total:   1,
		Message: "Fetching song catalog...",
	}
}

func catalogFetchedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d songs", count),
	}
}

func fetchDetailUpdate(song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetail,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving %s...", song.Name),
	}
}

func resolvedPathUpdate(path string, cached bool) ProgressUpdate {
	msg := fmt.Sprintf("Saving to %s", path)
	if cached {
		msg = fmt.Sprintf("Using existing file %s", path)
	}
	return ProgressUpdate{
		Phase:   ResolvePath,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    path,
	}
}

// downloadUpdate reports transfer progress. Step and Total are bytes; Total is 0 when unknown.
func downloadUpdate(p services.Progress) ProgressUpdate {
	msg := fmt.Sprintf("Downloading... %s", formatBytes(p.Written))
	if p.Total > 0 {
		msg = fmt.Sprintf("Downloading... %.0f%%", p.Percent())
	}
	if p.Done {
		msg = fmt.Sprintf("Downloaded %s", formatBytes(p.Written))
	}
	return ProgressUpdate{
		Phase:   Download,
		Step:    int(p.Written),
		Total:   int(max(p.Total, 0)),
		Message: msg,
		Data:    p,
	}
}

func persistUpdate(state models.PlayerState) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saving player state (%s)", state.Title()),
	}
}

func openPanelUpdate(state models.PlayerState) ProgressUpdate {
	return ProgressUpdate{
		Phase:   OpenPanel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Opening player: %s", state.Title()),
		Data:    state,
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
