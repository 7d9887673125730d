package reconcile

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"sort"

	"immichsync/internal/album"
	"immichsync/internal/immich"
)

// ChooseThumbnail picks the asset id a thumbnail setting refers to among
// the given assets, or "" when none qualifies. Named settings order the
// assets by capture time; anything else is matched as a literal original
// path.
func ChooseThumbnail(setting, albumName string, assets []immich.Asset, logger *slog.Logger) string {
	if len(assets) == 0 {
		logger.Warn("album has no assets to choose a thumbnail from", "album", albumName)
		return ""
	}

	if !album.IsNamedThumbnail(setting) {
		for _, asset := range assets {
			if asset.OriginalPath == setting {
				return asset.ID
			}
		}
		logger.Warn("thumbnail path not found among album assets", "album", albumName, "path", setting)
		return ""
	}

	ordered := slices.Clone(assets)
	// ISO timestamps sort lexicographically in chronological order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].FileCreatedAt < ordered[j].FileCreatedAt
	})
	switch setting {
	case album.ThumbnailFirst:
		return ordered[0].ID
	case album.ThumbnailLast:
		return ordered[len(ordered)-1].ID
	default:
		return ordered[rand.IntN(len(ordered))].ID
	}
}
