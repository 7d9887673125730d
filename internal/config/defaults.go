package config

const (
	defaultAPITimeout     = 20
	defaultChunkSize      = 2000
	defaultFetchChunkSize = 5000
	defaultShareRole      = "viewer"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			KeyType:        APIKeyLiteral,
			Timeout:        defaultAPITimeout,
			ChunkSize:      defaultChunkSize,
			FetchChunkSize: defaultFetchChunkSize,
		},
		Albums: Albums{
			Source:     SourceFolders,
			ScriptMode: ScriptModeCreate,
		},
		Sharing: Sharing{
			ShareRole: defaultShareRole,
			Unshare:   true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
