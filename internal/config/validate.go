package config

import (
	"errors"
	"fmt"
)

var validThumbnailModes = map[string]struct{}{
	"first":      {},
	"last":       {},
	"random":     {},
	"random-all": {},
}

// Validate ensures the configuration is usable before any API call is made.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateAlbums(); err != nil {
		return err
	}
	if err := c.validateSharing(); err != nil {
		return err
	}
	if c.WaitTimeout < 0 {
		return errors.New("wait_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.URL == "" {
		return errors.New("api.url must be set")
	}
	if c.API.Key == "" {
		return errors.New("api.key must be set")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.API.ChunkSize <= 0 || c.API.FetchChunkSize <= 0 {
		return errors.New("api chunk sizes must be positive")
	}
	return nil
}

func (c *Config) validateAlbums() error {
	switch c.Albums.Source {
	case SourceFolders, SourceTakeout:
	default:
		return fmt.Errorf("albums.source must be %q or %q, got %q", SourceFolders, SourceTakeout, c.Albums.Source)
	}
	switch c.Albums.ScriptMode {
	case ScriptModeCreate, ScriptModeCleanup, ScriptModeDeleteAll:
	default:
		return fmt.Errorf("albums.script_mode must be one of CREATE, CLEANUP, DELETE_ALL, got %q", c.Albums.ScriptMode)
	}
	switch c.Albums.Order {
	case "", "asc", "desc":
	default:
		return fmt.Errorf("albums.order must be \"asc\" or \"desc\", got %q", c.Albums.Order)
	}
	if c.Albums.Thumbnail != "" && c.Albums.Thumbnail[0] != '/' {
		if _, ok := validThumbnailModes[c.Albums.Thumbnail]; !ok {
			return fmt.Errorf("albums.thumbnail must be an absolute asset path or one of first, last, random, random-all, got %q", c.Albums.Thumbnail)
		}
	}
	if c.Albums.CommentsAndLikesOn && c.Albums.CommentsAndLikesOff {
		return errors.New("comments-and-likes-enabled and comments-and-likes-disabled cannot be used together")
	}
	if c.Albums.UpdateAlbumPropsMode < UpdateNever || c.Albums.UpdateAlbumPropsMode > UpdateSharing {
		return fmt.Errorf("update_album_props_mode must be 0, 1 or 2, got %d", c.Albums.UpdateAlbumPropsMode)
	}
	if c.Albums.SyncMode < SyncNone || c.Albums.SyncMode > SyncDeleteEmptyOffline {
		return fmt.Errorf("sync_mode must be 0, 1 or 2, got %d", c.Albums.SyncMode)
	}
	return nil
}

func (c *Config) validateSharing() error {
	switch c.Sharing.ShareRole {
	case "viewer", "editor":
		return nil
	default:
		return fmt.Errorf("sharing.share_role must be \"viewer\" or \"editor\", got %q", c.Sharing.ShareRole)
	}
}
