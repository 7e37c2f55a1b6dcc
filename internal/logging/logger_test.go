package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"songsync/internal/config"
	"songsync/internal/logging"
	"songsync/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, closeLog, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file", logging.String("song_key", "abc"))
	if err := closeLog(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	if err := closeLog(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected log file to be closed, got %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "songsync.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", data, err)
	}
	if entry["msg"] != "hello file" || entry["song_key"] != "abc" {
		t.Fatalf("unexpected log entry: %#v", entry)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "hashprefix")
	logger.Info("range query", logging.String("prefix", "ab12"), logging.Int("attempt", 1), logging.String("note", "two words"))

	line := buf.String()
	if !strings.Contains(line, "INFO hashprefix: range query") {
		t.Fatalf("expected level and component prefix, got %q", line)
	}
	if !strings.Contains(line, "prefix=ab12") || !strings.Contains(line, "attempt=1") {
		t.Fatalf("expected key=value fields, got %q", line)
	}
	if !strings.Contains(line, `note="two words"`) {
		t.Fatalf("expected quoted value, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("with caller")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller information, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "json", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("info line should be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("expected lowercase level in JSON output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base, _, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithSongKey(context.Background(), "dQw4w9WgXcQ")
	ctx = services.WithStage(ctx, "external-info")
	ctx = services.WithRequestID(ctx, "req-1")
	logging.WithContext(ctx, base).Info("processing")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry[logging.FieldSongKey] != "dQw4w9WgXcQ" || entry[logging.FieldStage] != "external-info" || entry[logging.FieldCorrelationID] != "req-1" {
		t.Fatalf("missing context fields: %#v", entry)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "lookup failed", "lookup_failed", logging.String(logging.FieldImpact, "song left unchanged"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry[logging.FieldEventType] != "lookup_failed" {
		t.Fatalf("expected event type, got %#v", entry)
	}
	if entry[logging.FieldErrorHint] == "" || entry[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint, got %#v", entry)
	}
	if entry[logging.FieldImpact] != "song left unchanged" {
		t.Fatalf("expected caller impact to win, got %#v", entry)
	}
}

func TestNewWithoutFileHasNoopClose(t *testing.T) {
	var buf bytes.Buffer
	_, closeLog, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := closeLog(); err != nil {
		t.Fatalf("close without file: %v", err)
	}
}
