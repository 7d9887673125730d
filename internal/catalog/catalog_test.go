package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"immichsync/internal/album"
	"immichsync/internal/catalog"
	"immichsync/internal/immich"
	"immichsync/internal/logging"
)

func writeAlbumProps(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, album.PropertiesFileName), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestApplyTemplatesKeepsAlbumOnConflict(t *testing.T) {
	root := t.TempDir()
	writeAlbumProps(t, filepath.Join(root, "a", "x"), "description=one\n")
	writeAlbumProps(t, filepath.Join(root, "b", "x"), "description=two\n")

	immichRoot := "/external/photos/"
	localRoot := root + string(filepath.Separator)
	assets := []immich.Asset{
		{ID: "a1", OriginalPath: immichRoot + "a/x/img1.jpg"},
		{ID: "a2", OriginalPath: immichRoot + "b/x/img2.jpg"},
	}
	c := catalog.FromFolders(assets, immichRoot, localRoot, logging.NewNop())

	templates, err := album.DiscoverTemplates(localRoot, immich.RoleViewer)
	if err != nil {
		t.Fatalf("DiscoverTemplates returned error: %v", err)
	}
	c.ApplyTemplates(templates, logging.NewNop())

	model := c.Get("x")
	if model == nil {
		t.Fatal("album with conflicting source properties was dropped from the catalog")
	}
	if model.Description != "one" {
		t.Errorf("Description = %q, want the value merged before the conflict", model.Description)
	}
	if len(model.Assets) != 2 {
		t.Errorf("got %d assets, want both source folders' assets kept", len(model.Assets))
	}
}
