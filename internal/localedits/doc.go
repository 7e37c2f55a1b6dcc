// Package localedits persists metadata corrections entered by the user.
//
// Edits live in a SQLite database (modernc.org/sqlite, no cgo) with embedded
// migrations tracked in schema_migrations. An edit is keyed by the song's
// unique id, or by a case-folded "artist - track" pair for songs without one.
package localedits
