package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"immichsync/internal/config"
	"immichsync/internal/immich"
	"immichsync/internal/logging"
)

func newSyncLibraryCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sync-library <library-id> <api-url> <api-key>",
		Short: "Trigger a scan of an external library",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.SyncLibrary, cfg.API.URL, cfg.API.Key = args[0], args[1], args[2]
			applyAPIFlags(cmd, &cfg)
			applyLoggingFlags(cmd, &cfg)
			applyScanFlags(cmd, &cfg)
			if err := cfg.Finalize(); err != nil {
				return err
			}
			return runSyncLibrary(cmd, cfg)
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	registerAPIFlags(cmd, defaults)
	registerLoggingFlags(cmd, defaults)
	registerScanFlags(cmd)

	return cmd
}

func runSyncLibrary(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	if _, err := client.RequireMinimumVersion(ctx); err != nil {
		return err
	}
	return scanLibrary(ctx, client, cfg, logger)
}

// scanLibrary triggers a scan of the configured external library and, when
// waiting is enabled, blocks until the library reports a refresh newer than
// the trigger time.
func scanLibrary(ctx context.Context, client *immich.Client, cfg config.Config, logger *slog.Logger) error {
	if _, err := uuid.Parse(cfg.SyncLibrary); err != nil {
		return fmt.Errorf("library id %q is not a valid UUID", cfg.SyncLibrary)
	}
	since := time.Now()
	if err := client.ScanLibrary(ctx, cfg.SyncLibrary); err != nil {
		return err
	}
	logger.Info("library scan triggered", "library", cfg.SyncLibrary)
	if !cfg.Wait {
		return nil
	}
	timeout := time.Duration(cfg.WaitTimeout) * time.Second
	logger.Info("waiting for the scan to finish", "library", cfg.SyncLibrary, "timeout", timeout)
	return client.WaitForScan(ctx, cfg.SyncLibrary, since, timeout)
}
