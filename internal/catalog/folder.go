package catalog

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"immichsync/internal/immich"
)

// FromFolders derives one album per folder component of each asset's path
// under the remote root. An asset nested in several folders joins the album
// of every one of them: /root/2023/Summer/img.jpg lands in both "2023" and
// "Summer".
//
// immichRoot is the library root as the server sees it, localRoot the same
// tree on this machine; both carry trailing slashes. Source folders are
// recorded against the local tree so properties files can be discovered.
func FromFolders(assets []immich.Asset, immichRoot, localRoot string, logger *slog.Logger) *Catalog {
	c := newCatalog()
	for _, asset := range assets {
		relative, ok := strings.CutPrefix(asset.OriginalPath, immichRoot)
		if !ok {
			logger.Debug("asset outside the library root", "path", asset.OriginalPath)
			continue
		}
		directory := path.Dir(relative)
		if directory == "." || directory == "/" {
			continue
		}
		components := strings.Split(directory, "/")
		seen := make(map[string]struct{}, len(components))
		for depth, component := range components {
			if component == "" {
				continue
			}
			sourceDir := filepath.Join(localRoot, filepath.Join(components[:depth+1]...))
			model := c.upsert(component)
			if _, dup := seen[component]; !dup {
				model.Assets = append(model.Assets, asset)
				seen[component] = struct{}{}
			}
			model.AddSourceDir(sourceDir)
		}
	}
	return c
}
