package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRemote()
	if err := c.normalizeLocalEdits(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemote() {
	if value, ok := os.LookupEnv("SONGSYNC_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Remote.BaseURL = value
	}
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = defaultRemoteBaseURL
	}
	c.Remote.Platform = strings.ToLower(strings.TrimSpace(c.Remote.Platform))
	if c.Remote.Platform == "" {
		c.Remote.Platform = defaultRemotePlatform
	}
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = defaultRemoteTimeoutSeconds
	}
	if c.Remote.MaxPrefixAttempts == 0 {
		c.Remote.MaxPrefixAttempts = defaultRemoteMaxAttempts
	}
	if c.Remote.RequestsPerSecond > 0 && c.Remote.Burst <= 0 {
		c.Remote.Burst = 1
	}
	c.Remote.DigestAlgorithm = strings.ToLower(strings.TrimSpace(c.Remote.DigestAlgorithm))
	if c.Remote.DigestAlgorithm == "" {
		c.Remote.DigestAlgorithm = defaultRemoteDigestAlgorithm
	}
	c.Remote.UserAgent = strings.TrimSpace(c.Remote.UserAgent)
	if c.Remote.UserAgent == "" {
		c.Remote.UserAgent = defaultRemoteUserAgent
	}
}

func (c *Config) normalizeLocalEdits() error {
	if strings.TrimSpace(c.LocalEdits.Path) == "" {
		c.LocalEdits.Path = filepath.Join(c.Paths.DataDir, defaultLocalEditsFile)
	}
	var err error
	if c.LocalEdits.Path, err = expandPath(c.LocalEdits.Path); err != nil {
		return fmt.Errorf("local_edits.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("SONGSYNC_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
