package testsupport

import (
	"context"
	"testing"

	"songsync/internal/config"
	"songsync/internal/localedits"
	"songsync/internal/song"
)

// MustOpenEdits opens a localedits.Store for tests and registers cleanup.
func MustOpenEdits(t testing.TB, cfg *config.Config) *localedits.Store {
	t.Helper()

	store, err := localedits.Open(cfg)
	if err != nil {
		t.Fatalf("localedits.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedEdit saves info for sng or fails the test.
func SeedEdit(t testing.TB, store *localedits.Store, sng *song.Song, info song.Info) {
	t.Helper()
	if err := store.Save(context.Background(), sng, info); err != nil {
		t.Fatalf("save edit: %v", err)
	}
}
