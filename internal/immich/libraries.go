package immich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrAdminRequired is returned when the offline-removal job trigger is
// rejected: on servers below 1.116 it requires an admin-level API key.
var ErrAdminRequired = errors.New("immich: offline asset removal requires an admin user API key")

// The epoch is used as a trashedAfter lower bound to enumerate every
// trashed asset.
const epochTimestamp = "1970-01-01T00:00:00.000Z"

// Libraries lists all external libraries.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	var libraries []Library
	if err := c.do(ctx, http.MethodGet, "libraries", nil, &libraries); err != nil {
		return nil, err
	}
	return libraries, nil
}

// ScanLibrary triggers a scan of the given external library.
func (c *Client) ScanLibrary(ctx context.Context, libraryID string) error {
	return c.do(ctx, http.MethodPost, "libraries/"+libraryID+"/scan", nil, nil)
}

type libraryStatus struct {
	RefreshedAt time.Time `json:"refreshedAt"`
}

// WaitForScan polls the library every second until its refreshedAt
// timestamp advances past since. A zero timeout polls without bound; the
// context cancels the wait either way.
func (c *Client) WaitForScan(ctx context.Context, libraryID string, since time.Time, timeout time.Duration) error {
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		var status libraryStatus
		if err := c.do(ctx, http.MethodGet, "libraries/"+libraryID, nil, &status); err != nil {
			return err
		}
		if status.RefreshedAt.After(since) {
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fmt.Errorf("library %s scan did not complete within %s", libraryID, timeout)
		}
	}
}

// RemoveOfflineAssets deletes assets whose originals have gone missing.
// Servers below 1.116 only expose an asynchronous, admin-only job per
// library; newer servers list trashed assets and force-delete the offline
// ones synchronously.
func (c *Client) RemoveOfflineAssets(ctx context.Context, version Version) error {
	if version.AtLeast(1, 116) {
		return c.removeOfflineSynchronously(ctx)
	}
	return c.triggerOfflineRemovalJobs(ctx)
}

// removeOfflineSynchronously enumerates trashed assets and filters for the
// offline flag client-side. The server-side isOffline filter is not
// respected on 1.116.x through at least 1.117.x; going through the trash
// keeps those versions safe from deleting assets that are merely trashed.
func (c *Client) removeOfflineSynchronously(ctx context.Context) error {
	trashed, err := c.SearchAssets(ctx, SearchFilter{TrashedAfter: epochTimestamp})
	if err != nil {
		return err
	}
	var offline []string
	for _, asset := range trashed {
		if asset.IsOffline {
			offline = append(offline, asset.ID)
			c.logger.Debug("offline asset scheduled for deletion", "path", asset.OriginalPath)
		}
	}
	if len(offline) == 0 {
		c.logger.Info("no offline assets found")
		return nil
	}
	c.logger.Info("deleting offline assets", "count", len(offline))
	return c.DeleteAssets(ctx, offline, true)
}

// triggerOfflineRemovalJobs starts the asynchronous removal job on every
// library. A 403 means the API key lacks admin rights, which is a fatal
// configuration error rather than something to retry.
func (c *Client) triggerOfflineRemovalJobs(ctx context.Context) error {
	libraries, err := c.Libraries(ctx)
	if err != nil {
		return err
	}
	for _, library := range libraries {
		err := c.do(ctx, http.MethodPost, "libraries/"+library.ID+"/removeOffline", nil, nil)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			return ErrAdminRequired
		}
		if err != nil {
			return err
		}
	}
	return nil
}
