package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Script mode values for the albums tool.
const (
	ScriptModeCreate    = "CREATE"
	ScriptModeCleanup   = "CLEANUP"
	ScriptModeDeleteAll = "DELETE_ALL"
)

// Catalog source values.
const (
	SourceFolders = "folder"
	SourceTakeout = "takeout"
)

// Update modes for album properties on existing albums.
const (
	UpdateNever      = 0
	UpdateProperties = 1
	UpdateSharing    = 2
)

// Sync (cleanup) modes.
const (
	SyncNone               = 0
	SyncDeleteEmpty        = 1
	SyncDeleteEmptyOffline = 2
)

// API key source types.
const (
	APIKeyLiteral = "literal"
	APIKeyFile    = "file"
)

// EnvIsDocker marks containerized execution and changes confirmation behavior.
const EnvIsDocker = "IS_DOCKER"

// Sharing contains default album sharing settings.
type Sharing struct {
	ShareWith []string `toml:"share_with"`
	ShareRole string   `toml:"share_role"`
	Unshare   bool     `toml:"unshare"`
}

// Albums contains settings that shape the desired album catalog.
type Albums struct {
	Source               string `toml:"source"`
	ScriptMode           string `toml:"script_mode"`
	Order                string `toml:"order"`
	Thumbnail            string `toml:"thumbnail"`
	Archive              bool   `toml:"archive"`
	FindAssetsInAlbums   bool   `toml:"find_assets_in_albums"`
	FindArchivedAssets   bool   `toml:"find_archived_assets"`
	ReadAlbumProperties  bool   `toml:"read_album_properties"`
	CommentsAndLikesOn   bool   `toml:"comments_and_likes_enabled"`
	CommentsAndLikesOff  bool   `toml:"comments_and_likes_disabled"`
	UpdateAlbumPropsMode int    `toml:"update_album_props_mode"`
	SyncMode             int    `toml:"sync_mode"`
}

// API contains Immich connection settings.
type API struct {
	URL            string `toml:"url"`
	Key            string `toml:"key"`
	KeyType        string `toml:"key_type"`
	Timeout        int    `toml:"timeout"`
	Insecure       bool   `toml:"insecure"`
	ChunkSize      int    `toml:"chunk_size"`
	FetchChunkSize int    `toml:"fetch_chunk_size"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates one run of the tool. It is assembled once from CLI
// arguments, flags and an optional TOML file, then passed read-only to every
// component constructor.
type Config struct {
	LocalRoot  string `toml:"local_root"`
	ImmichRoot string `toml:"immich_root"`

	API     API     `toml:"api"`
	Albums  Albums  `toml:"albums"`
	Sharing Sharing `toml:"sharing"`
	Logging Logging `toml:"logging"`

	Unattended  bool   `toml:"unattended"`
	SyncLibrary string `toml:"sync_library"`
	Wait        bool   `toml:"wait"`
	WaitTimeout int    `toml:"wait_timeout"`
}

// Load parses the TOML file at path over repository defaults. Flag values are
// bound on top by the CLI layer before Finalize runs.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Finalize normalizes and validates the configuration, resolving the API key
// when it is supplied via a file.
func (c *Config) Finalize() error {
	c.normalize()
	if err := c.resolveAPIKey(); err != nil {
		return err
	}
	return c.Validate()
}

// resolveAPIKey replaces API.Key with the contents of the referenced file
// when key_type is "file".
func (c *Config) resolveAPIKey() error {
	switch c.API.KeyType {
	case APIKeyLiteral:
		return nil
	case APIKeyFile:
		contents, err := os.ReadFile(c.API.Key)
		if err != nil {
			return fmt.Errorf("read API key file: %w", err)
		}
		key := strings.TrimSpace(string(contents))
		if key == "" {
			return fmt.Errorf("API key file %s is empty", c.API.Key)
		}
		c.API.Key = key
		return nil
	default:
		return fmt.Errorf("unknown API key type %q: must be %q or %q", c.API.KeyType, APIKeyLiteral, APIKeyFile)
	}
}

// IsDocker reports whether the process runs inside a container, per the
// IS_DOCKER environment variable.
func IsDocker() bool {
	value := strings.TrimSpace(os.Getenv(EnvIsDocker))
	return value != "" && value != "0" && !strings.EqualFold(value, "false")
}
