package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"immichsync/internal/config"
)

func finalized(t *testing.T, mutate func(*config.Config)) (config.Config, error) {
	t.Helper()
	cfg := config.Default()
	cfg.LocalRoot = "/photos"
	cfg.ImmichRoot = "/external/photos"
	cfg.API.URL = "https://immich.example.com/api"
	cfg.API.Key = "secret"
	if mutate != nil {
		mutate(&cfg)
	}
	err := cfg.Finalize()
	return cfg, err
}

func TestFinalizeAppendsTrailingSlashes(t *testing.T) {
	cfg, err := finalized(t, nil)
	if err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	if cfg.LocalRoot != "/photos/" {
		t.Errorf("LocalRoot = %q, want trailing slash", cfg.LocalRoot)
	}
	if cfg.ImmichRoot != "/external/photos/" {
		t.Errorf("ImmichRoot = %q, want trailing slash", cfg.ImmichRoot)
	}
	if cfg.API.URL != "https://immich.example.com/api/" {
		t.Errorf("API.URL = %q, want trailing slash", cfg.API.URL)
	}
}

func TestFinalizeRejectsConflictingCommentFlags(t *testing.T) {
	_, err := finalized(t, func(cfg *config.Config) {
		cfg.Albums.CommentsAndLikesOn = true
		cfg.Albums.CommentsAndLikesOff = true
	})
	if err == nil {
		t.Fatal("expected error for conflicting comments-and-likes flags")
	}
}

func TestFinalizeRejectsBadShareRole(t *testing.T) {
	_, err := finalized(t, func(cfg *config.Config) {
		cfg.Sharing.ShareRole = "owner"
	})
	if err == nil {
		t.Fatal("expected error for invalid share role")
	}
}

func TestFinalizeRejectsBadThumbnailMode(t *testing.T) {
	_, err := finalized(t, func(cfg *config.Config) {
		cfg.Albums.Thumbnail = "newest"
	})
	if err == nil {
		t.Fatal("expected error for invalid thumbnail mode")
	}
}

func TestFinalizeAcceptsLiteralThumbnailPath(t *testing.T) {
	_, err := finalized(t, func(cfg *config.Config) {
		cfg.Albums.Thumbnail = "/external/photos/2023/cover.jpg"
	})
	if err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
}

func TestResolveAPIKeyFromFile(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key")
	if err := os.WriteFile(keyPath, []byte("  file-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := finalized(t, func(cfg *config.Config) {
		cfg.API.Key = keyPath
		cfg.API.KeyType = config.APIKeyFile
	})
	if err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	if cfg.API.Key != "file-secret" {
		t.Errorf("API.Key = %q, want trimmed file contents", cfg.API.Key)
	}
}

func TestResolveAPIKeyMissingFile(t *testing.T) {
	_, err := finalized(t, func(cfg *config.Config) {
		cfg.API.Key = filepath.Join(t.TempDir(), "missing")
		cfg.API.KeyType = config.APIKeyFile
	})
	if err == nil {
		t.Fatal("expected error for missing API key file")
	}
}

func TestResolveAPIKeyUnknownType(t *testing.T) {
	_, err := finalized(t, func(cfg *config.Config) {
		cfg.API.KeyType = "vault"
	})
	if err == nil {
		t.Fatal("expected error for unknown API key type")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
unattended = true

[api]
timeout = 45

[albums]
sync_mode = 1

[sharing]
share_role = "editor"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Unattended {
		t.Error("Unattended not loaded from file")
	}
	if cfg.API.Timeout != 45 {
		t.Errorf("API.Timeout = %d, want 45", cfg.API.Timeout)
	}
	if cfg.Albums.SyncMode != 1 {
		t.Errorf("Albums.SyncMode = %d, want 1", cfg.Albums.SyncMode)
	}
	if cfg.Sharing.ShareRole != "editor" {
		t.Errorf("Sharing.ShareRole = %q, want editor", cfg.Sharing.ShareRole)
	}
	// Defaults survive for keys the file does not mention.
	if cfg.API.ChunkSize != 2000 {
		t.Errorf("API.ChunkSize = %d, want default 2000", cfg.API.ChunkSize)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
