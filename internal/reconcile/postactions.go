package reconcile

import (
	"context"
	"math/rand/v2"
	"sort"

	"immichsync/internal/album"
	"immichsync/internal/immich"
)

// DeleteEmptyAlbums deletes every remote album without assets. It returns
// how many were deleted and how many deletions were attempted; individual
// failures are logged and do not stop the sweep.
func (e *Engine) DeleteEmptyAlbums(ctx context.Context) (deleted, attempted int, err error) {
	albums, err := e.client.Albums(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, remote := range albums {
		if remote.AssetCount != 0 {
			continue
		}
		attempted++
		if e.client.DeleteAlbum(ctx, remote) {
			deleted++
		}
	}
	if attempted > 0 {
		e.logger.Info("deleted empty albums", "deleted", deleted, "attempted", attempted)
	}
	return deleted, attempted, nil
}

// RandomizeAllThumbnails assigns a random thumbnail to every remote album
// that has at least one asset.
func (e *Engine) RandomizeAllThumbnails(ctx context.Context) error {
	albums, err := e.client.Albums(ctx)
	if err != nil {
		return err
	}
	for _, remote := range albums {
		detail, err := e.client.AlbumInfo(ctx, remote.ID)
		if err != nil {
			e.logger.Warn("error fetching album for thumbnail selection", "album", remote.AlbumName, "error", err)
			continue
		}
		if len(detail.Assets) == 0 {
			continue
		}
		id := detail.Assets[rand.IntN(len(detail.Assets))].ID
		patch := immich.AlbumPatch{AlbumThumbnailAssetID: &id}
		if err := e.client.PatchAlbum(ctx, remote.ID, patch); err != nil {
			e.logger.Warn("error setting album thumbnail", "album", remote.AlbumName, "error", err)
		}
	}
	return nil
}

// DeleteManaged deletes remote albums whose names appear in the desired
// catalog, or every remote album when all is set. With unarchive, archived
// assets of each album are unarchived first so they resurface in the
// timeline after the album is gone.
func (e *Engine) DeleteManaged(ctx context.Context, desired map[string]*album.Model, all, unarchive bool) (deleted, attempted int, err error) {
	albums, err := e.client.Albums(ctx)
	if err != nil {
		return 0, 0, err
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].AlbumName < albums[j].AlbumName })
	for _, remote := range albums {
		if !all {
			if _, managed := desired[remote.AlbumName]; !managed {
				continue
			}
		}
		attempted++
		if unarchive {
			if err := e.unarchiveAlbumAssets(ctx, remote); err != nil {
				e.logger.Warn("error unarchiving assets of album", "album", remote.AlbumName, "error", err)
			}
		}
		if e.client.DeleteAlbum(ctx, remote) {
			deleted++
		}
	}
	e.logger.Info("deleted albums", "deleted", deleted, "attempted", attempted)
	return deleted, attempted, nil
}

func (e *Engine) unarchiveAlbumAssets(ctx context.Context, remote immich.Album) error {
	detail, err := e.client.AlbumInfo(ctx, remote.ID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(detail.Assets))
	for _, asset := range detail.Assets {
		if asset.IsArchived {
			ids = append(ids, asset.ID)
		}
	}
	return e.client.SetAssetsArchived(ctx, ids, false)
}
