package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"songsync/internal/song"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.index.URL())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestPrefixLengthCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"prefix-length"}, env.configPath)
	if err != nil {
		t.Fatalf("prefix-length: %v", err)
	}
	requireContains(t, out, "5")
}

func TestKnownAndFetchCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.index.AddRecord("dQw4w9WgXcQ", song.Info{Track: "Never Gonna Give You Up", Artist: "Rick Astley"})

	out, _, err := runCLI(t, []string{"--json", "known", "dQw4w9WgXcQ"}, env.configPath)
	if err != nil {
		t.Fatalf("known: %v", err)
	}
	var known knownResult
	if err := json.Unmarshal([]byte(out), &known); err != nil {
		t.Fatalf("decode known output: %v\n%s", err, out)
	}
	if !known.Known || len(known.Digest) != 40 {
		t.Fatalf("unexpected known result: %+v", known)
	}

	out, _, err = runCLI(t, []string{"fetch", "dQw4w9WgXcQ"}, env.configPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "Never Gonna Give You Up")
	requireContains(t, out, "Rick Astley")

	out, _, err = runCLI(t, []string{"fetch", "missing-id"}, env.configPath)
	if err != nil {
		t.Fatalf("fetch missing: %v", err)
	}
	requireContains(t, out, "No shared record")
	if env.index.Count("get") != 1 {
		t.Fatalf("expected fetch endpoint only for the known id, got %d", env.index.Count("get"))
	}
}

func TestSubmitCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"submit", "abc123"}, env.configPath); err == nil {
		t.Fatal("expected error without any field flags")
	}

	out, _, err := runCLI(t, []string{"submit", "abc123", "--track", "Song", "--album-artist", "Various"}, env.configPath)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireContains(t, out, "Submitted record for abc123")
	got, ok := env.index.Submitted("abc123")
	if !ok || got.Track != "Song" || got.AlbumArtist != "Various" {
		t.Fatalf("unexpected submission: %+v (ok=%v)", got, ok)
	}

	env.index.RejectSubmissions()
	if _, _, err := runCLI(t, []string{"submit", "abc123", "--track", "Song"}, env.configPath); err == nil {
		t.Fatal("expected refused submission to fail the command")
	}
}

func TestEditsAndEnrichCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.index.AddRecord("dQw4w9WgXcQ", song.Info{Track: "Never Gonna Give You Up"})

	if _, _, err := runCLI(t, []string{"edits", "set", "dQw4w9WgXcQ", "--album", "Local Album"}, env.configPath); err != nil {
		t.Fatalf("edits set: %v", err)
	}
	out, _, err := runCLI(t, []string{"edits", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("edits list: %v", err)
	}
	requireContains(t, out, "Local Album")

	out, _, err = runCLI(t, []string{"--json", "enrich", "--id", "dQw4w9WgXcQ", "--connector", "YouTube Music", "--track", "parsed"}, env.configPath)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	var result enrichResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode enrich output: %v\n%s", err, out)
	}
	if result.Processed.Track != "Never Gonna Give You Up" || result.Processed.Album != "Local Album" {
		t.Fatalf("unexpected processed fields: %+v", result.Processed)
	}
	if !result.Flags.IsCorrectedByUser || result.Parsed.Track != "parsed" {
		t.Fatalf("unexpected enrich result: %+v", result)
	}

	if _, _, err := runCLI(t, []string{"edits", "remove", "dQw4w9WgXcQ"}, env.configPath); err != nil {
		t.Fatalf("edits remove: %v", err)
	}
	if _, _, err := runCLI(t, []string{"edits", "remove", "dQw4w9WgXcQ"}, env.configPath); err == nil {
		t.Fatal("expected second remove to fail")
	}
}

func TestEditsSetWithoutIDUsesSourceFields(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"edits", "set", "--album", "x"}, env.configPath); err == nil {
		t.Fatal("expected error without id or source fields")
	}
	out, _, err := runCLI(t, []string{"edits", "set", "--source-artist", "ABBA", "--source-track", "Waterloo", "--album", "Waterloo"}, env.configPath)
	if err != nil {
		t.Fatalf("edits set: %v", err)
	}
	requireContains(t, out, "abba - waterloo")
}
