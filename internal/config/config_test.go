package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"songsync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "songsync")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.LocalEdits.Path != filepath.Join(wantData, "edits.db") {
		t.Fatalf("unexpected local edits path: %q", cfg.LocalEdits.Path)
	}
	if !cfg.LocalEdits.Enabled {
		t.Fatal("expected local edits enabled by default")
	}
	if cfg.Remote.BaseURL != "https://music-metadata.lostluma.net" {
		t.Fatalf("unexpected base url: %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.Platform != "youtube" {
		t.Fatalf("unexpected platform: %q", cfg.Remote.Platform)
	}
	if cfg.Remote.DigestAlgorithm != "sha1" {
		t.Fatalf("expected sha1 digest by default, got %q", cfg.Remote.DigestAlgorithm)
	}
	if cfg.Remote.MaxPrefixAttempts != config.Default().Remote.MaxPrefixAttempts {
		t.Fatalf("unexpected max prefix attempts: %d", cfg.Remote.MaxPrefixAttempts)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected request timeout: %s", cfg.RequestTimeout())
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
data_dir = "~/songs"

[remote]
base_url = "http://localhost:8080/"
platform = " YouTube "
max_prefix_attempts = 5
requests_per_second = 0
digest_algorithm = "BLAKE3"

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "songs") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Remote.BaseURL != "http://localhost:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.Platform != "youtube" {
		t.Fatalf("expected normalized platform, got %q", cfg.Remote.Platform)
	}
	if cfg.Remote.MaxPrefixAttempts != 5 {
		t.Fatalf("unexpected max prefix attempts: %d", cfg.Remote.MaxPrefixAttempts)
	}
	if cfg.Remote.RequestsPerSecond != 0 {
		t.Fatalf("expected pacing disabled, got %v", cfg.Remote.RequestsPerSecond)
	}
	if cfg.Remote.DigestAlgorithm != "blake3" {
		t.Fatalf("unexpected digest algorithm: %q", cfg.Remote.DigestAlgorithm)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestEnvironmentOverridesBaseURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SONGSYNC_BASE_URL", "https://index.example.org/")
	t.Setenv("SONGSYNC_LOG_LEVEL", "warn")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Remote.BaseURL != "https://index.example.org" {
		t.Fatalf("expected env base url, got %q", cfg.Remote.BaseURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"scheme", func(c *config.Config) { c.Remote.BaseURL = "ftp://example.com" }, "remote.base_url"},
		{"host", func(c *config.Config) { c.Remote.BaseURL = "https://" }, "remote.base_url"},
		{"platform", func(c *config.Config) { c.Remote.Platform = "you/tube" }, "remote.platform"},
		{"attempts", func(c *config.Config) { c.Remote.MaxPrefixAttempts = 0 }, "remote.max_prefix_attempts"},
		{"pacing", func(c *config.Config) { c.Remote.RequestsPerSecond = -1 }, "remote.requests_per_second"},
		{"digest", func(c *config.Config) { c.Remote.DigestAlgorithm = "md5" }, "remote.digest_algorithm"},
		{"edits", func(c *config.Config) { c.LocalEdits.Path = "" }, "local_edits.path"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.LocalEdits.Path = "/tmp/edits.db"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Remote.BaseURL != config.Default().Remote.BaseURL {
		t.Fatalf("sample base url drifted from defaults: %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.MaxPrefixAttempts != config.Default().Remote.MaxPrefixAttempts {
		t.Fatalf("sample max attempts drifted from defaults: %d", cfg.Remote.MaxPrefixAttempts)
	}
}

func TestEnsureDirectoriesCreatesDataDir(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.LocalEdits.Path = filepath.Join(base, "db", "edits.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, filepath.Join(base, "db")} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
