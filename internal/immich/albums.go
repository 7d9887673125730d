package immich

import (
	"context"
	"net/http"
	"slices"
)

// Albums lists all albums visible to the API key.
func (c *Client) Albums(ctx context.Context) ([]Album, error) {
	var albums []Album
	if err := c.do(ctx, http.MethodGet, "albums", nil, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// AlbumInfo fetches the full state of one album, including its assets and
// sharing entries.
func (c *Client) AlbumInfo(ctx context.Context, albumID string) (*AlbumDetail, error) {
	var detail AlbumDetail
	if err := c.do(ctx, http.MethodGet, "albums/"+albumID, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

type createAlbumRequest struct {
	AlbumName string `json:"albumName"`
}

type createAlbumResponse struct {
	ID string `json:"id"`
}

// CreateAlbum creates an empty album and returns its id.
func (c *Client) CreateAlbum(ctx context.Context, name string) (string, error) {
	var created createAlbumResponse
	if err := c.do(ctx, http.MethodPost, "albums", createAlbumRequest{AlbumName: name}, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteAlbum deletes an album. Failures are logged, not returned; the
// result reports whether the album is gone.
func (c *Client) DeleteAlbum(ctx context.Context, album Album) bool {
	c.logger.Debug("deleting album", "id", album.ID, "name", album.AlbumName)
	if err := c.do(ctx, http.MethodDelete, "albums/"+album.ID, nil, nil); err != nil {
		c.logger.Error("error deleting album", "name", album.AlbumName, "error", err)
		return false
	}
	return true
}

// PatchAlbum updates the set fields of the patch on the album. Empty
// patches are a no-op.
func (c *Client) PatchAlbum(ctx context.Context, albumID string, patch AlbumPatch) error {
	if patch.Empty() {
		return nil
	}
	return c.do(ctx, http.MethodPatch, "albums/"+albumID, patch, nil)
}

type addAssetsRequest struct {
	IDs []string `json:"ids"`
}

type bulkIDResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AddAssetsToAlbum adds assets to an album in chunks and returns the ids
// the server confirmed as newly added. Assets reported as duplicates are
// treated as already-present successes and excluded from the result; any
// other per-asset error is logged and excluded.
func (c *Client) AddAssetsToAlbum(ctx context.Context, albumID string, assetIDs []string) ([]string, error) {
	var added []string
	for chunk := range slices.Chunk(assetIDs, c.addChunkSize) {
		var results []bulkIDResult
		if err := c.do(ctx, http.MethodPut, "albums/"+albumID+"/assets", addAssetsRequest{IDs: chunk}, &results); err != nil {
			return added, err
		}
		for _, result := range results {
			switch {
			case result.Success:
				added = append(added, result.ID)
			case result.Error != "duplicate":
				c.logger.Warn("error adding an asset to an album", "asset", result.ID, "error", result.Error)
			}
		}
	}
	return added, nil
}
