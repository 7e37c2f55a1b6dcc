package song

import (
	"strings"

	"golang.org/x/text/cases"
)

// Field names a base metadata field. The string value matches the JSON key
// used by the shared metadata index.
type Field string

const (
	FieldTrack       Field = "track"
	FieldAlbum       Field = "album"
	FieldArtist      Field = "artist"
	FieldAlbumArtist Field = "albumArtist"
)

// BaseFields lists the fields stages are allowed to write, in display order.
var BaseFields = []Field{FieldTrack, FieldAlbum, FieldArtist, FieldAlbumArtist}

// Fields holds one value per base field. Empty means unset.
type Fields struct {
	Track       string
	Album       string
	Artist      string
	AlbumArtist string
}

// Get returns the value stored for f.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldTrack:
		return f.Track
	case FieldAlbum:
		return f.Album
	case FieldArtist:
		return f.Artist
	case FieldAlbumArtist:
		return f.AlbumArtist
	default:
		return ""
	}
}

// Set stores value for field. Unknown fields are ignored.
func (f *Fields) Set(field Field, value string) {
	switch field {
	case FieldTrack:
		f.Track = value
	case FieldAlbum:
		f.Album = value
	case FieldArtist:
		f.Artist = value
	case FieldAlbumArtist:
		f.AlbumArtist = value
	}
}

// Flags are provenance markers set by pipeline stages.
type Flags struct {
	// IsCorrectedByUser is sticky: once a trusted source sets it, later
	// stages must not reset it.
	IsCorrectedByUser bool `json:"is_corrected_by_user"`
}

// Song is the enriched entity.
type Song struct {
	uniqueID       string
	connectorLabel string
	parsed         Fields

	Processed Fields
	Flags     Flags
}

// New constructs a song from connector observations.
func New(uniqueID, connectorLabel string, parsed Fields) *Song {
	return &Song{
		uniqueID:       strings.TrimSpace(uniqueID),
		connectorLabel: strings.TrimSpace(connectorLabel),
		parsed:         parsed,
	}
}

// UniqueID returns the platform identifier, or "" when the connector has none.
func (s *Song) UniqueID() string { return s.uniqueID }

// ConnectorLabel returns the human label of the source connector.
func (s *Song) ConnectorLabel() string { return s.connectorLabel }

// Parsed returns the fields as observed by the connector.
func (s *Song) Parsed() Fields { return s.parsed }

// Value returns the processed value for field, falling back to the parsed one.
func (s *Song) Value(field Field) string {
	if v := s.Processed.Get(field); v != "" {
		return v
	}
	return s.parsed.Get(field)
}

// Key identifies the song for local edit storage and logging: the unique id
// when present, otherwise a case-folded "artist - track" pair taken from the
// parsed fields.
func (s *Song) Key() string {
	if s.uniqueID != "" {
		return s.uniqueID
	}
	artist := strings.TrimSpace(s.parsed.Artist)
	track := strings.TrimSpace(s.parsed.Track)
	if artist == "" && track == "" {
		return ""
	}
	return cases.Fold().String(artist + " - " + track)
}

// Apply writes every non-empty field of info into the processed layer and
// reports how many fields were written.
func (s *Song) Apply(info Info) int {
	applied := 0
	for _, field := range BaseFields {
		value := strings.TrimSpace(info.Get(field))
		if value == "" {
			continue
		}
		s.Processed.Set(field, value)
		applied++
	}
	return applied
}

// MarkCorrected sets IsCorrectedByUser. A false value never clears an
// existing true flag.
func (s *Song) MarkCorrected(corrected bool) {
	if s.Flags.IsCorrectedByUser {
		return
	}
	s.Flags.IsCorrectedByUser = corrected
}
