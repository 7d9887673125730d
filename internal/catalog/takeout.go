package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"immichsync/internal/immich"
)

// Takeout archive layout under the local root.
const (
	indexFileName      = "database.sqlite3"
	manifestDirName    = "debug"
	albumListFile      = "album_list.json"
	sharedAlbumsFile   = "shared_album_list.json"
	albumAssetsPattern = "album-%s.json"
)

// takeoutAlbum is one entry of the archiver's album manifests. Pointer
// fields distinguish absent keys from empty values; entries lacking a title
// or item count are metadata stubs and are skipped.
type takeoutAlbum struct {
	ID                    string  `json:"id"`
	Title                 *string `json:"title"`
	MediaItemsCount       *string `json:"mediaItemsCount"`
	CoverPhotoMediaItemID string  `json:"coverPhotoMediaItemId"`
}

type takeoutAsset struct {
	ID string `json:"id"`
}

// FromTakeout builds the catalog from a photo-backup archive: the embedded
// read-only index maps archive identifiers to local files, which join
// against the remote asset list via root substitution; the archive's album
// manifests then assign mapped assets to albums.
func FromTakeout(ctx context.Context, localRoot, immichRoot string, assets []immich.Asset, logger *slog.Logger) (*Catalog, error) {
	assetByArchiveID, err := mapArchiveIDs(ctx, localRoot, immichRoot, assets, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("mapped archive assets", "count", len(assetByArchiveID))

	albums, err := readAlbumManifests(localRoot)
	if err != nil {
		return nil, err
	}

	c := newCatalog()
	seenAlbumIDs := make(map[string]struct{}, len(albums))
	assetsPerAlbum := make(map[string]map[string]struct{})
	for _, entry := range albums {
		if entry.Title == nil || entry.MediaItemsCount == nil {
			continue
		}
		// First-seen album id wins across the primary and shared lists.
		if _, dup := seenAlbumIDs[entry.ID]; dup {
			continue
		}
		seenAlbumIDs[entry.ID] = struct{}{}

		name := *entry.Title
		model := c.upsert(name)
		if model.ThumbnailSetting == "" && entry.CoverPhotoMediaItemID != "" {
			if cover, ok := assetByArchiveID[entry.CoverPhotoMediaItemID]; ok {
				model.ThumbnailSetting = cover.OriginalPath
			}
		}

		memberIDs, err := readAlbumAssets(localRoot, entry.ID)
		if err != nil {
			return nil, err
		}
		members := assetsPerAlbum[name]
		if members == nil {
			members = make(map[string]struct{})
			assetsPerAlbum[name] = members
		}
		for _, member := range memberIDs {
			// First occurrence within an album wins; later duplicates skip.
			if _, dup := members[member.ID]; dup {
				continue
			}
			members[member.ID] = struct{}{}
			asset, ok := assetByArchiveID[member.ID]
			if !ok {
				logger.Debug("cannot find media", "archive_id", member.ID)
				continue
			}
			model.Assets = append(model.Assets, asset)
			model.AddSourceDir(localDirOf(asset, localRoot, immichRoot))
		}
	}
	return c, nil
}

// mapArchiveIDs opens the archive's embedded index read-only and joins its
// uuid-to-path rows against the remote assets, matching on the local path
// reconstructed by substituting the remote root with the local one.
func mapArchiveIDs(ctx context.Context, localRoot, immichRoot string, assets []immich.Asset, logger *slog.Logger) (map[string]immich.Asset, error) {
	assetByLocalPath := make(map[string]immich.Asset, len(assets))
	for _, asset := range assets {
		relative, ok := strings.CutPrefix(asset.OriginalPath, immichRoot)
		if !ok {
			continue
		}
		assetByLocalPath[filepath.Clean(localRoot+relative)] = asset
	}

	dbPath := filepath.Join(localRoot, indexFileName)
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open archive index: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT uuid, path FROM media`)
	if err != nil {
		return nil, fmt.Errorf("query archive index: %w", err)
	}
	defer rows.Close()

	assetByArchiveID := make(map[string]immich.Asset)
	for rows.Next() {
		var uuid, mediaPath string
		if err := rows.Scan(&uuid, &mediaPath); err != nil {
			return nil, fmt.Errorf("scan archive index row: %w", err)
		}
		mediaPath = filepath.Clean(mediaPath)
		asset, ok := assetByLocalPath[mediaPath]
		if !ok {
			logger.Debug("cannot map archive media", "path", mediaPath)
			continue
		}
		assetByArchiveID[uuid] = asset
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read archive index: %w", err)
	}
	return assetByArchiveID, nil
}

// readAlbumManifests concatenates the primary and shared album lists, in
// that order, so the primary list wins id dedupe.
func readAlbumManifests(localRoot string) ([]takeoutAlbum, error) {
	var albums []takeoutAlbum
	for _, name := range []string{albumListFile, sharedAlbumsFile} {
		path := filepath.Join(localRoot, manifestDirName, name)
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read album manifest: %w", err)
		}
		var batch []takeoutAlbum
		if err := json.Unmarshal(contents, &batch); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		albums = append(albums, batch...)
	}
	return albums, nil
}

func readAlbumAssets(localRoot, albumID string) ([]takeoutAsset, error) {
	path := filepath.Join(localRoot, manifestDirName, fmt.Sprintf(albumAssetsPattern, albumID))
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read album assets manifest: %w", err)
	}
	var members []takeoutAsset
	if err := json.Unmarshal(contents, &members); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return members, nil
}

func localDirOf(asset immich.Asset, localRoot, immichRoot string) string {
	relative, ok := strings.CutPrefix(asset.OriginalPath, immichRoot)
	if !ok {
		return filepath.Clean(localRoot)
	}
	return filepath.Dir(filepath.Clean(localRoot + relative))
}
