package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"immichsync/internal/album"
	"immichsync/internal/catalog"
	"immichsync/internal/config"
	"immichsync/internal/immich"
	"immichsync/internal/logging"
	"immichsync/internal/reconcile"
)

func newAlbumsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "albums <local-root> <immich-root> <api-url> <api-key>",
		Short: "Create and converge albums from a folder structure or takeout archive",
		Long: `Builds the desired album state from the folder structure under
<local-root> (or from a Google Photos takeout archive) and converges the
Immich server toward it: missing albums are created, missing assets are
added, and properties and sharing are updated per the configured mode.

<immich-root> is the path prefix the server stores the same files under.
The API key is taken literally unless --api-key-type=file points it at a
file containing the key.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.LocalRoot, cfg.ImmichRoot, cfg.API.URL, cfg.API.Key = args[0], args[1], args[2], args[3]
			applyAlbumFlags(cmd, &cfg)
			if err := cfg.Finalize(); err != nil {
				return err
			}
			return runAlbums(cmd, cfg)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	registerAPIFlags(cmd, defaults)
	registerLoggingFlags(cmd, defaults)
	registerScanFlags(cmd)
	flags.String("source", defaults.Albums.Source, `catalog source: "folder" or "takeout"`)
	flags.String("mode", defaults.Albums.ScriptMode, "script mode: CREATE, CLEANUP or DELETE_ALL")
	flags.String("order", "", `album asset order: "asc" or "desc"`)
	flags.String("thumbnail", "", "thumbnail setting: first, last, random, random-all or an asset path")
	flags.Bool("archive", false, "archive assets after adding them to albums")
	flags.Bool("find-assets-in-albums", false, "also assign assets that are already in an album")
	flags.Bool("find-archived-assets", false, "also assign archived assets")
	flags.Bool("read-album-properties", false, "read .albumprops files found in the folder structure")
	flags.Bool("comments-and-likes-enabled", false, "enable comments and likes on managed albums")
	flags.Bool("comments-and-likes-disabled", false, "disable comments and likes on managed albums")
	flags.Int("update-album-props-mode", 0, "0 never, 1 update properties, 2 also update sharing on existing albums")
	flags.Int("sync-mode", 0, "0 none, 1 delete empty albums, 2 also remove offline assets")
	flags.StringSlice("share-with", nil, `users to share new albums with, "name" or "name=role"`)
	flags.String("share-role", defaults.Sharing.ShareRole, `default share role: "viewer" or "editor"`)
	flags.Bool("unshare", defaults.Sharing.Unshare, "remove share entries absent from the desired state")
	flags.Bool("unattended", false, "apply changes without asking for confirmation")
	flags.String("sync-library", "", "external library UUID to scan before building albums")

	return cmd
}

func applyAlbumFlags(cmd *cobra.Command, cfg *config.Config) {
	applyAPIFlags(cmd, cfg)
	applyLoggingFlags(cmd, cfg)
	applyScanFlags(cmd, cfg)
	setChangedString(cmd, "source", &cfg.Albums.Source)
	setChangedString(cmd, "mode", &cfg.Albums.ScriptMode)
	setChangedString(cmd, "order", &cfg.Albums.Order)
	setChangedString(cmd, "thumbnail", &cfg.Albums.Thumbnail)
	setChangedBool(cmd, "archive", &cfg.Albums.Archive)
	setChangedBool(cmd, "find-assets-in-albums", &cfg.Albums.FindAssetsInAlbums)
	setChangedBool(cmd, "find-archived-assets", &cfg.Albums.FindArchivedAssets)
	setChangedBool(cmd, "read-album-properties", &cfg.Albums.ReadAlbumProperties)
	setChangedBool(cmd, "comments-and-likes-enabled", &cfg.Albums.CommentsAndLikesOn)
	setChangedBool(cmd, "comments-and-likes-disabled", &cfg.Albums.CommentsAndLikesOff)
	setChangedInt(cmd, "update-album-props-mode", &cfg.Albums.UpdateAlbumPropsMode)
	setChangedInt(cmd, "sync-mode", &cfg.Albums.SyncMode)
	setChangedStringSlice(cmd, "share-with", &cfg.Sharing.ShareWith)
	setChangedString(cmd, "share-role", &cfg.Sharing.ShareRole)
	setChangedBool(cmd, "unshare", &cfg.Sharing.Unshare)
	setChangedBool(cmd, "unattended", &cfg.Unattended)
	setChangedString(cmd, "sync-library", &cfg.SyncLibrary)
}

func runAlbums(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	lock, err := acquireRunLock(cfg.API.URL)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	version, err := client.RequireMinimumVersion(ctx)
	if err != nil {
		return err
	}
	logger.Info("connected", "server_version", version)

	if cfg.SyncLibrary != "" {
		if err := scanLibrary(ctx, client, cfg, logger); err != nil {
			return err
		}
	}

	assets, err := fetchAssets(ctx, client, cfg)
	if err != nil {
		return err
	}
	logger.Info("fetched assets", "count", len(assets))

	desired, err := buildDesired(ctx, cfg, assets, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, previewTable(desired))
	fmt.Fprintf(out, "%d assets across %d albums, mode %s\n", len(assets), len(desired), cfg.Albums.ScriptMode)

	proceed, err := confirmRun(cmd, cfg)
	if err != nil {
		return err
	}
	if !proceed {
		return nil
	}

	engine := reconcile.New(client, logger, reconcile.Options{
		UpdateProperties: cfg.Albums.UpdateAlbumPropsMode >= config.UpdateProperties,
		UpdateSharing:    cfg.Albums.UpdateAlbumPropsMode == config.UpdateSharing,
		Unshare:          cfg.Sharing.Unshare,
	})

	switch cfg.Albums.ScriptMode {
	case config.ScriptModeCleanup:
		deleted, attempted, err := engine.DeleteManaged(ctx, desired, false, cfg.Albums.Archive)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d of %d albums\n", deleted, attempted)
		return nil
	case config.ScriptModeDeleteAll:
		deleted, attempted, err := engine.DeleteManaged(ctx, nil, true, cfg.Albums.Archive)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d of %d albums\n", deleted, attempted)
		return nil
	}

	summary, err := engine.Run(ctx, desired)
	if err != nil {
		return err
	}
	if err := runPostActions(ctx, engine, client, cfg, version, logger); err != nil {
		return err
	}

	fmt.Fprintln(out, summaryTable(summary))
	if failed := summary.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d albums failed to reconcile", len(failed), len(summary.Results))
	}
	return nil
}

// runPostActions runs the configured cleanup sweeps after the main loop.
// Offline removal comes before the empty-album sweep: on servers where the
// removal is synchronous, albums it empties are deleted in the same run.
func runPostActions(ctx context.Context, engine *reconcile.Engine, client *immich.Client, cfg config.Config, version immich.Version, logger *slog.Logger) error {
	if cfg.Albums.Thumbnail == album.ThumbnailRandomAll {
		if err := engine.RandomizeAllThumbnails(ctx); err != nil {
			logger.Error("error randomizing album thumbnails", "error", err)
		}
	}
	if cfg.Albums.SyncMode == config.SyncDeleteEmptyOffline {
		if err := client.RemoveOfflineAssets(ctx, version); err != nil {
			return err
		}
	}
	if cfg.Albums.SyncMode >= config.SyncDeleteEmpty {
		if _, _, err := engine.DeleteEmptyAlbums(ctx); err != nil {
			logger.Error("error deleting empty albums", "error", err)
		}
	}
	return nil
}

// fetchAssets lists the assets the catalog is built from. Assets already in
// an album and archived assets are excluded unless configured otherwise.
func fetchAssets(ctx context.Context, client *immich.Client, cfg config.Config) ([]immich.Asset, error) {
	var filter immich.SearchFilter
	if !cfg.Albums.FindAssetsInAlbums {
		notInAlbum := true
		filter.IsNotInAlbum = &notInAlbum
	}
	if cfg.Albums.FindArchivedAssets {
		withArchived := true
		filter.WithArchived = &withArchived
	}
	return client.SearchAssets(ctx, filter)
}

// buildDesired assembles the desired album state: the catalog from the
// configured source, properties-file templates on top, CLI defaults for
// whatever the templates left unset.
func buildDesired(ctx context.Context, cfg config.Config, assets []immich.Asset, logger *slog.Logger) (map[string]*album.Model, error) {
	role, err := immich.ParseRole(cfg.Sharing.ShareRole)
	if err != nil {
		return nil, err
	}

	var cat *catalog.Catalog
	switch cfg.Albums.Source {
	case config.SourceTakeout:
		cat, err = catalog.FromTakeout(ctx, cfg.LocalRoot, cfg.ImmichRoot, assets, logger)
		if err != nil {
			return nil, err
		}
	default:
		cat = catalog.FromFolders(assets, cfg.ImmichRoot, cfg.LocalRoot, logger)
	}

	// Both sources record local source folders on their models, so
	// properties files apply to takeout albums as well.
	if cfg.Albums.ReadAlbumProperties {
		templates, err := album.DiscoverTemplates(cfg.LocalRoot, role)
		if err != nil {
			return nil, err
		}
		cat.ApplyTemplates(templates, logger)
	}

	defaults, err := defaultProperties(cfg, role)
	if err != nil {
		return nil, err
	}
	cat.ApplyDefaults(defaults)
	return cat.Desired(logger), nil
}

// defaultProperties turns the CLI-level album settings into the property
// set merged into albums that did not pick them up elsewhere.
func defaultProperties(cfg config.Config, role immich.Role) (album.Properties, error) {
	props := album.Properties{
		ThumbnailSetting: cfg.Albums.Thumbnail,
		SortOrder:        cfg.Albums.Order,
	}
	if cfg.Albums.Archive {
		archive := true
		props.Archive = &archive
	}
	switch {
	case cfg.Albums.CommentsAndLikesOn:
		enabled := true
		props.CommentsAndLikesEnabled = &enabled
	case cfg.Albums.CommentsAndLikesOff:
		enabled := false
		props.CommentsAndLikesEnabled = &enabled
	}
	if len(cfg.Sharing.ShareWith) > 0 {
		shares, err := album.ParseShareWith(cfg.Sharing.ShareWith, role)
		if err != nil {
			return album.Properties{}, err
		}
		props.ShareWith = shares
	}
	return props, nil
}
