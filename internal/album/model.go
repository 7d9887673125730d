package album

import (
	"fmt"

	"immichsync/internal/immich"
)

// Thumbnail settings with reserved meanings. Anything else is treated as a
// literal original-path of the asset to use.
const (
	ThumbnailFirst     = "first"
	ThumbnailLast      = "last"
	ThumbnailRandom    = "random"
	ThumbnailRandomAll = "random-all"
)

// IsNamedThumbnail reports whether the setting is one of the reserved
// selection modes rather than a literal asset path.
func IsNamedThumbnail(setting string) bool {
	switch setting {
	case ThumbnailFirst, ThumbnailLast, ThumbnailRandom, ThumbnailRandomAll:
		return true
	}
	return false
}

// ShareUser pairs a user name or email with the role to share under.
type ShareUser struct {
	User string
	Role immich.Role
}

// Model is the desired state of one album. Instances are built once per
// run, mutated during property merging and remote-id assignment, then
// discarded.
type Model struct {
	// ID is assigned once the album is known to exist remotely.
	ID string
	// Name is derived from the folder or manifest and immutable after
	// construction.
	Name string
	// OverrideName, when set, replaces Name for everything remote-facing.
	OverrideName string

	Description string
	Assets      []immich.Asset
	ShareWith   []ShareUser

	// ThumbnailSetting is a reserved mode or a literal asset path.
	ThumbnailSetting string
	// SortOrder is "asc" or "desc"; empty leaves the server default.
	SortOrder string
	// Archive decides whether newly added assets get archived; nil means
	// unset.
	Archive *bool
	// CommentsAndLikesEnabled toggles album activity; nil means unset.
	CommentsAndLikesEnabled *bool

	// SourceDirs are the local folders this album was derived from;
	// properties files found in them or their ancestors apply to it.
	SourceDirs []string
}

// New constructs a model for the given derived name.
func New(name string) *Model {
	return &Model{Name: name}
}

// FinalName is the remote-facing name: the override when present,
// otherwise the derived name. It is the join key against remote albums.
func (m *Model) FinalName() string {
	if m.OverrideName != "" {
		return m.OverrideName
	}
	return m.Name
}

// AssetIDs returns the remote identifiers of all assigned assets.
func (m *Model) AssetIDs() []string {
	ids := make([]string, 0, len(m.Assets))
	for _, asset := range m.Assets {
		ids = append(ids, asset.ID)
	}
	return ids
}

// AddSourceDir records a local folder the album was derived from, once.
func (m *Model) AddSourceDir(dir string) {
	for _, existing := range m.SourceDirs {
		if existing == dir {
			return
		}
	}
	m.SourceDirs = append(m.SourceDirs, dir)
}

func (m *Model) String() string {
	return fmt.Sprintf("album %q (%d assets)", m.FinalName(), len(m.Assets))
}
