package catalog_test

import (
	"path/filepath"
	"slices"
	"testing"

	"immichsync/internal/catalog"
	"immichsync/internal/immich"
	"immichsync/internal/logging"
)

func asset(id, path string) immich.Asset {
	return immich.Asset{ID: id, OriginalPath: path}
}

func TestFromFoldersAssignsEveryPathComponent(t *testing.T) {
	assets := []immich.Asset{
		asset("a1", "/external/photos/2023/Summer/beach.jpg"),
		asset("a2", "/external/photos/2023/winter.jpg"),
		asset("a3", "/external/photos/Pets/cat.jpg"),
	}

	c := catalog.FromFolders(assets, "/external/photos/", "/photos/", logging.NewNop())

	if got := c.SortedNames(); !slices.Equal(got, []string{"2023", "Pets", "Summer"}) {
		t.Fatalf("album names = %v, want [2023 Pets Summer]", got)
	}
	if ids := c.Get("2023").AssetIDs(); !slices.Equal(ids, []string{"a1", "a2"}) {
		t.Errorf("2023 assets = %v, want [a1 a2]", ids)
	}
	if ids := c.Get("Summer").AssetIDs(); !slices.Equal(ids, []string{"a1"}) {
		t.Errorf("Summer assets = %v, want [a1]", ids)
	}
	if ids := c.Get("Pets").AssetIDs(); !slices.Equal(ids, []string{"a3"}) {
		t.Errorf("Pets assets = %v, want [a3]", ids)
	}
}

func TestFromFoldersMembershipMatchesPathComponents(t *testing.T) {
	// For every asset the set of albums it joins equals the set of path
	// components of its path relative to the root.
	a := asset("x", "/root/a/b/c/photo.jpg")
	c := catalog.FromFolders([]immich.Asset{a}, "/root/", "/local/", logging.NewNop())

	for _, component := range []string{"a", "b", "c"} {
		model := c.Get(component)
		if model == nil {
			t.Fatalf("album %q missing", component)
		}
		if !slices.Contains(model.AssetIDs(), "x") {
			t.Errorf("asset x missing from album %q", component)
		}
	}
	if c.Len() != 3 {
		t.Errorf("catalog has %d albums, want exactly the 3 components", c.Len())
	}
}

func TestFromFoldersSkipsAssetsOutsideRoot(t *testing.T) {
	assets := []immich.Asset{
		asset("in", "/external/photos/Trips/rome.jpg"),
		asset("out", "/other/library/Trips/paris.jpg"),
	}
	c := catalog.FromFolders(assets, "/external/photos/", "/photos/", logging.NewNop())

	if ids := c.Get("Trips").AssetIDs(); !slices.Equal(ids, []string{"in"}) {
		t.Errorf("Trips assets = %v, want only the asset under the root", ids)
	}
}

func TestFromFoldersIgnoresRootLevelAssets(t *testing.T) {
	c := catalog.FromFolders([]immich.Asset{asset("r", "/external/photos/loose.jpg")}, "/external/photos/", "/photos/", logging.NewNop())
	if c.Len() != 0 {
		t.Errorf("root-level assets must not create albums, got %v", c.SortedNames())
	}
}

func TestFromFoldersRepeatedComponentAddsAssetOnce(t *testing.T) {
	c := catalog.FromFolders([]immich.Asset{asset("x", "/root/a/b/a/photo.jpg")}, "/root/", "/local/", logging.NewNop())
	if ids := c.Get("a").AssetIDs(); !slices.Equal(ids, []string{"x"}) {
		t.Errorf("album a assets = %v, the asset must join once", ids)
	}
}

func TestFromFoldersRecordsLocalSourceDirs(t *testing.T) {
	c := catalog.FromFolders([]immich.Asset{asset("a1", "/external/photos/2023/Summer/beach.jpg")}, "/external/photos/", "/photos/", logging.NewNop())

	summer := c.Get("Summer")
	want := filepath.Join("/photos", "2023", "Summer")
	if !slices.Contains(summer.SourceDirs, want) {
		t.Errorf("Summer source dirs = %v, want to contain %q", summer.SourceDirs, want)
	}
}
