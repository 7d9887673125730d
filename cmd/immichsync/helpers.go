package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"immichsync/internal/config"
	"immichsync/internal/immich"
)

// Flag values only override the configuration when they were set on the
// command line, so a TOML file and flag defaults never fight each other.

func setChangedString(cmd *cobra.Command, name string, target *string) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetString(name)
	}
}

func setChangedInt(cmd *cobra.Command, name string, target *int) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetInt(name)
	}
}

func setChangedBool(cmd *cobra.Command, name string, target *bool) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetBool(name)
	}
}

func setChangedStringSlice(cmd *cobra.Command, name string, target *[]string) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetStringSlice(name)
	}
}

func registerAPIFlags(cmd *cobra.Command, defaults config.Config) {
	flags := cmd.Flags()
	flags.String("api-key-type", defaults.API.KeyType, `how to interpret the API key argument: "literal" or "file"`)
	flags.Int("api-timeout", defaults.API.Timeout, "API request timeout in seconds")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.Int("chunk-size", defaults.API.ChunkSize, "assets per album-add request")
	flags.Int("fetch-chunk-size", defaults.API.FetchChunkSize, "assets per search page")
}

func applyAPIFlags(cmd *cobra.Command, cfg *config.Config) {
	setChangedString(cmd, "api-key-type", &cfg.API.KeyType)
	setChangedInt(cmd, "api-timeout", &cfg.API.Timeout)
	setChangedBool(cmd, "insecure", &cfg.API.Insecure)
	setChangedInt(cmd, "chunk-size", &cfg.API.ChunkSize)
	setChangedInt(cmd, "fetch-chunk-size", &cfg.API.FetchChunkSize)
}

func registerLoggingFlags(cmd *cobra.Command, defaults config.Config) {
	flags := cmd.Flags()
	flags.String("log-level", defaults.Logging.Level, "log level: debug, info, warn or error")
	flags.String("log-format", defaults.Logging.Format, `log format: "console" or "json"`)
}

func applyLoggingFlags(cmd *cobra.Command, cfg *config.Config) {
	setChangedString(cmd, "log-level", &cfg.Logging.Level)
	setChangedString(cmd, "log-format", &cfg.Logging.Format)
}

func registerScanFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("wait", false, "wait for a triggered library scan to finish")
	flags.Int("wait-timeout", 0, "scan wait timeout in seconds, 0 waits without bound")
}

func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	setChangedBool(cmd, "wait", &cfg.Wait)
	setChangedInt(cmd, "wait-timeout", &cfg.WaitTimeout)
}

func newClient(cfg config.Config, logger *slog.Logger) (*immich.Client, error) {
	opts := []immich.Option{
		immich.WithTimeout(time.Duration(cfg.API.Timeout) * time.Second),
		immich.WithChunkSizes(cfg.API.FetchChunkSize, cfg.API.ChunkSize),
		immich.WithLogger(logger),
	}
	if cfg.API.Insecure {
		opts = append(opts, immich.WithInsecure())
	}
	return immich.New(cfg.API.URL, cfg.API.Key, opts...)
}

// acquireRunLock takes a per-server file lock so two runs against the same
// server never interleave their album mutations.
func acquireRunLock(apiURL string) (*flock.Flock, error) {
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse API URL: %w", err)
	}
	host := strings.ReplaceAll(parsed.Host, ":", "-")
	if host == "" {
		host = "local"
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "immichsync")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, host+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another run against %s is already in progress", parsed.Host)
	}
	return lock, nil
}

// confirmRun decides whether the run may mutate the server. Unattended runs
// always proceed. In a container without a terminal the preview is the
// whole run: the user is told how to apply it and the command exits clean.
func confirmRun(cmd *cobra.Command, cfg config.Config) (bool, error) {
	if cfg.Unattended {
		return true, nil
	}
	out := cmd.OutOrStdout()
	if config.IsDocker() {
		fmt.Fprintln(out, "Preview only. Re-run with --unattended to apply the changes.")
		return false, nil
	}
	if file, ok := cmd.InOrStdin().(*os.File); ok && !isatty.IsTerminal(file.Fd()) {
		return false, errors.New("stdin is not a terminal; pass --unattended to run without confirmation")
	}

	fmt.Fprint(out, "Proceed? [y/N]: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
