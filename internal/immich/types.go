package immich

import "fmt"

// Asset is a single remote media item. The tool never mutates these fields
// locally; they are only referenced.
type Asset struct {
	ID            string `json:"id"`
	OriginalPath  string `json:"originalPath"`
	FileCreatedAt string `json:"fileCreatedAt"`
	IsArchived    bool   `json:"isArchived"`
	IsOffline     bool   `json:"isOffline"`
}

// Album is the list form returned by GET albums.
type Album struct {
	ID         string `json:"id"`
	AlbumName  string `json:"albumName"`
	AssetCount int    `json:"assetCount"`
}

// AlbumUser is one sharing entry of an album.
type AlbumUser struct {
	User User   `json:"user"`
	Role string `json:"role"`
}

// AlbumDetail is the full album payload returned by GET albums/{id}.
type AlbumDetail struct {
	ID         string      `json:"id"`
	AlbumName  string      `json:"albumName"`
	Assets     []Asset     `json:"assets"`
	AlbumUsers []AlbumUser `json:"albumUsers"`
}

// AlbumPatch carries the album fields a PATCH may update. Nil fields are
// omitted so unset properties never overwrite server state.
type AlbumPatch struct {
	AlbumThumbnailAssetID *string `json:"albumThumbnailAssetId,omitempty"`
	Description           *string `json:"description,omitempty"`
	Order                 *string `json:"order,omitempty"`
	IsActivityEnabled     *bool   `json:"isActivityEnabled,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p AlbumPatch) Empty() bool {
	return p.AlbumThumbnailAssetID == nil && p.Description == nil && p.Order == nil && p.IsActivityEnabled == nil
}

// User is a remote account that albums can be shared with.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Library is an external library as returned by GET libraries.
type Library struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Version is the server version triple reported by the version endpoints.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// AtLeast reports whether the version is equal to or newer than
// major.minor.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
