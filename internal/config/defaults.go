package config

const (
	defaultConfigPath            = "~/.config/songsync/config.toml"
	defaultDataDir               = "~/.local/share/songsync"
	defaultLogDir                = "~/.local/share/songsync/logs"
	defaultLocalEditsFile        = "edits.db"
	defaultRemoteBaseURL         = "https://music-metadata.lostluma.net"
	defaultRemotePlatform        = "youtube"
	defaultRemoteTimeoutSeconds  = 10
	defaultRemoteMaxAttempts     = 3
	defaultRemoteRequestsPerSec  = 5
	defaultRemoteBurst           = 5
	defaultRemoteDigestAlgorithm = "sha1"
	defaultRemoteUserAgent       = "songsync/0.1.0"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	maxRemoteMaxAttempts         = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Remote: Remote{
			BaseURL:           defaultRemoteBaseURL,
			Platform:          defaultRemotePlatform,
			TimeoutSeconds:    defaultRemoteTimeoutSeconds,
			MaxPrefixAttempts: defaultRemoteMaxAttempts,
			RequestsPerSecond: defaultRemoteRequestsPerSec,
			Burst:             defaultRemoteBurst,
			DigestAlgorithm:   defaultRemoteDigestAlgorithm,
			UserAgent:         defaultRemoteUserAgent,
		},
		LocalEdits: LocalEdits{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
