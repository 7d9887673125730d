package immich

import (
	"context"
	"net/http"
)

// SearchFilter selects assets for SearchAssets. The zero value matches
// everything the search endpoint returns by default.
type SearchFilter struct {
	// IsNotInAlbum restricts results to assets not in any album.
	IsNotInAlbum *bool
	// WithArchived includes archived assets in the results.
	WithArchived *bool
	// TrashedAfter restricts results to assets trashed after the given
	// RFC3339 timestamp. Used with the epoch to enumerate all trashed
	// assets when hunting for offline ones.
	TrashedAfter string
}

type searchMetadataRequest struct {
	IsNotInAlbum *bool  `json:"isNotInAlbum,omitempty"`
	WithArchived *bool  `json:"withArchived,omitempty"`
	TrashedAfter string `json:"trashedAfter,omitempty"`
	Size         int    `json:"size"`
	Page         int    `json:"page"`
}

type searchMetadataResponse struct {
	Assets struct {
		Items []Asset `json:"items"`
	} `json:"assets"`
}

// SearchAssets pages through search/metadata and returns every matching
// asset. It keeps requesting the next page while the server returns a full
// page and stops on the first short page.
func (c *Client) SearchAssets(ctx context.Context, filter SearchFilter) ([]Asset, error) {
	pageSize := min(c.fetchChunkSize, maxSearchPageSize)
	request := searchMetadataRequest{
		IsNotInAlbum: filter.IsNotInAlbum,
		WithArchived: filter.WithArchived,
		TrashedAfter: filter.TrashedAfter,
		Size:         pageSize,
	}

	var found []Asset
	for page := 1; ; page++ {
		request.Page = page
		var response searchMetadataResponse
		if err := c.do(ctx, http.MethodPost, "search/metadata", request, &response); err != nil {
			return nil, err
		}
		received := response.Assets.Items
		c.logger.Debug("received assets", "count", len(received), "page", page)
		found = append(found, received...)
		if len(received) < pageSize {
			return found, nil
		}
	}
}

type archiveRequest struct {
	IDs        []string `json:"ids"`
	IsArchived bool     `json:"isArchived"`
}

// SetAssetsArchived archives or unarchives the given assets.
func (c *Client) SetAssetsArchived(ctx context.Context, assetIDs []string, archived bool) error {
	if len(assetIDs) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPut, "assets", archiveRequest{IDs: assetIDs, IsArchived: archived}, nil)
}

type deleteAssetsRequest struct {
	Force bool     `json:"force"`
	IDs   []string `json:"ids"`
}

// DeleteAssets removes the given assets, bypassing the trash when force is
// set.
func (c *Client) DeleteAssets(ctx context.Context, assetIDs []string, force bool) error {
	if len(assetIDs) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodDelete, "assets", deleteAssetsRequest{Force: force, IDs: assetIDs}, nil)
}
