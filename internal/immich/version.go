package immich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Minimum server version this tool supports.
const (
	MinSupportedMajor = 1
	MinSupportedMinor = 106
)

// ErrUnsupportedServer is returned when the server is older than the
// minimum supported version.
var ErrUnsupportedServer = errors.New("immich server version not supported")

// ServerVersion probes the server version. The endpoint moved with server
// v1.118.0; a 404 from the current endpoint falls back to the legacy one.
// Any other non-2xx status is a communication error.
func (c *Client) ServerVersion(ctx context.Context) (Version, error) {
	var version Version
	err := c.do(ctx, http.MethodGet, "server/version", nil, &version)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		err = c.do(ctx, http.MethodGet, "server-info/version", nil, &version)
	}
	if err != nil {
		c.logger.Error("communication with Immich API failed, check the API URL")
		return Version{}, err
	}
	c.logger.Info("detected Immich server version", "version", version.String())
	return version, nil
}

// RequireMinimumVersion fetches the server version and fails when it is
// below the minimum this tool supports.
func (c *Client) RequireMinimumVersion(ctx context.Context) (Version, error) {
	version, err := c.ServerVersion(ctx)
	if err != nil {
		return Version{}, err
	}
	if version.Major == MinSupportedMajor && version.Minor < MinSupportedMinor {
		return version, fmt.Errorf("%w: need at least %d.%d.0, server reports %s",
			ErrUnsupportedServer, MinSupportedMajor, MinSupportedMinor, version)
	}
	return version, nil
}
