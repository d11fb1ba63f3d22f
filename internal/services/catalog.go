// Catalog [Catalog] implementation for the monster-siren song API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/desertthunder/siren/internal/models"
	"github.com/desertthunder/siren/internal/shared"
)

type songListEnvelope struct {
	Data *struct {
		List []models.Song `json:"list"`
	} `json:"data"`
}

type songDetailEnvelope struct {
	Data *models.SongDetail `json:"data"`
}

// APIClient defines the raw GET used by [CatalogService].
type APIClient interface {
	Get(ctx context.Context, path string) (*APIResponse, error)
}

// CatalogService implements [Catalog] against the catalog REST endpoints.
type CatalogService struct {
	api APIClient
}

// NewCatalogService creates a catalog client over the given raw API client.
func NewCatalogService(api APIClient) *CatalogService {
	return &CatalogService{api: api}
}

// ListSongs fetches the song list, preserving server order.
func (c *CatalogService) ListSongs(ctx context.Context) ([]models.Song, error) {
	body, err := c.fetch(ctx, "/api/songs")
	if err != nil {
		return nil, err
	}

	var envelope songListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed song list: %v", shared.ErrNetwork, err)
	}
	if envelope.Data == nil || envelope.Data.List == nil {
		return nil, fmt.Errorf("%w: song list missing data.list", shared.ErrNetwork)
	}

	return envelope.Data.List, nil
}

// GetSongDetail fetches the playable source for cid.
func (c *CatalogService) GetSongDetail(ctx context.Context, cid string) (*models.SongDetail, error) {
	if cid == "" {
		return nil, fmt.Errorf("%w: empty song id", shared.ErrInvalidArgument)
	}

	body, err := c.fetch(ctx, "/api/song/"+url.PathEscape(cid))
	if err != nil {
		return nil, err
	}

	var envelope songDetailEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed song detail: %v", shared.ErrNetwork, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: song detail missing data", shared.ErrNetwork)
	}

	detail := envelope.Data
	if !detail.Playable() {
		return nil, fmt.Errorf("%w: song %s", shared.ErrNotFound, cid)
	}
	if detail.CID == "" {
		detail.CID = cid
	}

	return detail, nil
}

func (c *CatalogService) fetch(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: GET %s returned status %d", shared.ErrNetwork, path, resp.StatusCode)
	}
	if !resp.IsJSON {
		return nil, fmt.Errorf("%w: GET %s returned a non-JSON body", shared.ErrNetwork, path)
	}
	return resp.Body, nil
}
