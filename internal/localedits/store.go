package localedits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"songsync/internal/config"
	"songsync/internal/services"
	"songsync/internal/song"
)

// Edit is one stored correction.
type Edit struct {
	Key       string
	UniqueID  string
	Info      song.Info
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store manages local edits backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the database configured in [local_edits].
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "localedits", "open", "config is required", nil)
	}
	if !cfg.LocalEdits.Enabled {
		return nil, services.Wrap(services.ErrConfiguration, "localedits", "open", "local edits are disabled", nil)
	}
	return OpenPath(cfg.LocalEdits.Path)
}

// OpenPath opens or creates the database at path and applies migrations.
func OpenPath(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "localedits", "open", "database path is required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create edits directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores info as the edit for sng, replacing any earlier edit. Empty
// fields are stored as empty and never overwrite values when loaded.
func (s *Store) Save(ctx context.Context, sng *song.Song, info song.Info) error {
	if sng == nil {
		return services.Wrap(services.ErrValidation, "localedits", "save", "song is required", nil)
	}
	key := sng.Key()
	if key == "" {
		return services.Wrap(services.ErrValidation, "localedits", "save", "song has no unique id, artist or track", nil)
	}
	info = trimInfo(info)
	if info.IsEmpty() {
		return services.Wrap(services.ErrValidation, "localedits", "save", "edit has no values", nil)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO edits (key, unique_id, track, album, artist, album_artist, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET
             unique_id = excluded.unique_id,
             track = excluded.track,
             album = excluded.album,
             artist = excluded.artist,
             album_artist = excluded.album_artist,
             updated_at = excluded.updated_at`,
		key,
		nullableString(sng.UniqueID()),
		info.Track,
		info.Album,
		info.Artist,
		info.AlbumArtist,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("save edit: %w", err)
	}
	return nil
}

// Load applies the stored edit for sng to its processed fields and reports
// whether one existed.
func (s *Store) Load(ctx context.Context, sng *song.Song) (bool, error) {
	if sng == nil || sng.Key() == "" {
		return false, nil
	}
	edit, ok, err := s.Lookup(ctx, sng.Key())
	if err != nil || !ok {
		return false, err
	}
	sng.Apply(edit.Info)
	return true, nil
}

// Lookup returns the edit stored under key.
func (s *Store) Lookup(ctx context.Context, key string) (Edit, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+editColumns+` FROM edits WHERE key = ?`, key)
	edit, err := scanEdit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Edit{}, false, nil
	}
	if err != nil {
		return Edit{}, false, fmt.Errorf("lookup edit: %w", err)
	}
	return edit, true, nil
}

// Remove deletes the edit stored under key and reports whether one existed.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM edits WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("remove edit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// List returns every edit ordered by key.
func (s *Store) List(ctx context.Context) ([]Edit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+editColumns+` FROM edits ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list edits: %w", err)
	}
	defer rows.Close()

	var edits []Edit
	for rows.Next() {
		edit, err := scanEdit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan edit: %w", err)
		}
		edits = append(edits, edit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edits: %w", err)
	}
	return edits, nil
}

const editColumns = "key, unique_id, track, album, artist, album_artist, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanEdit(row scanner) (Edit, error) {
	var (
		edit      Edit
		uniqueID  sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&edit.Key,
		&uniqueID,
		&edit.Info.Track,
		&edit.Info.Album,
		&edit.Info.Artist,
		&edit.Info.AlbumArtist,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Edit{}, err
	}
	edit.UniqueID = uniqueID.String
	edit.CreatedAt = parseTime(createdAt)
	edit.UpdatedAt = parseTime(updatedAt)
	return edit, nil
}

func trimInfo(info song.Info) song.Info {
	return song.Info{
		Track:       strings.TrimSpace(info.Track),
		Album:       strings.TrimSpace(info.Album),
		Artist:      strings.TrimSpace(info.Artist),
		AlbumArtist: strings.TrimSpace(info.AlbumArtist),
	}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
