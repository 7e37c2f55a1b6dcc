package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateLocalEdits(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRemote() error {
	parsed, err := url.Parse(c.Remote.BaseURL)
	if err != nil {
		return fmt.Errorf("remote.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("remote.base_url must use http or https, got %q", c.Remote.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("remote.base_url must include a host, got %q", c.Remote.BaseURL)
	}
	if strings.ContainsAny(c.Remote.Platform, "/?# ") {
		return fmt.Errorf("remote.platform must be a bare platform name, got %q", c.Remote.Platform)
	}
	if c.Remote.TimeoutSeconds < 0 {
		return errors.New("remote.timeout_seconds must be positive")
	}
	if c.Remote.MaxPrefixAttempts < 1 || c.Remote.MaxPrefixAttempts > maxRemoteMaxAttempts {
		return fmt.Errorf("remote.max_prefix_attempts must be between 1 and %d", maxRemoteMaxAttempts)
	}
	if c.Remote.RequestsPerSecond < 0 {
		return errors.New("remote.requests_per_second must be zero or positive")
	}
	switch c.Remote.DigestAlgorithm {
	case "sha1", "sha256", "blake3":
	default:
		return fmt.Errorf("remote.digest_algorithm: unsupported value %q (use sha1, sha256, or blake3)", c.Remote.DigestAlgorithm)
	}
	return nil
}

func (c *Config) validateLocalEdits() error {
	if !c.LocalEdits.Enabled {
		return nil
	}
	if strings.TrimSpace(c.LocalEdits.Path) == "" {
		return errors.New("local_edits.path must be set when local_edits.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
