// Package immich is a typed client for the Immich server HTTP API.
//
// It covers the surface this tool needs: version probing (with the legacy
// endpoint fallback for servers below 1.118), paginated metadata search,
// album CRUD and membership, sharing, archival, asset deletion and external
// library scans. Every response passes through a single status check that
// turns non-2xx replies into *APIError values carrying the decoded error
// payload; callers decide per call site whether to log and continue or to
// propagate.
package immich
