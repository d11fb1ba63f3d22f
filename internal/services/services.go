// package services defines interface Catalog for the remote song catalog and the downloader used by the player
package services

import (
	"context"

	"github.com/desertthunder/siren/internal/models"
)

// Catalog defines the read-only operations against the remote song catalog.
type Catalog interface {
	// ListSongs retrieves every song in server order.
	ListSongs(ctx context.Context) ([]models.Song, error)

	// GetSongDetail resolves a song to its playable source.
	// Returns an error wrapping shared.ErrNotFound when no source URL is published.
	GetSongDetail(ctx context.Context, cid string) (*models.SongDetail, error)
}

// Transfer defines a download of a remote resource to a local path.
type Transfer interface {
	Download(ctx context.Context, sourceURL, dest string, onProgress func(Progress)) error
}
