package song

import "strings"

// Info is a metadata record keyed by a song identifier. JSON null decodes to
// the empty string, which the merge rules treat as absent.
type Info struct {
	Track       string `json:"track,omitempty"`
	Album       string `json:"album,omitempty"`
	Artist      string `json:"artist,omitempty"`
	AlbumArtist string `json:"albumArtist,omitempty"`
}

// Get returns the value of field.
func (i Info) Get(field Field) string {
	switch field {
	case FieldTrack:
		return i.Track
	case FieldAlbum:
		return i.Album
	case FieldArtist:
		return i.Artist
	case FieldAlbumArtist:
		return i.AlbumArtist
	default:
		return ""
	}
}

// IsEmpty reports whether every field is blank.
func (i Info) IsEmpty() bool {
	for _, field := range BaseFields {
		if strings.TrimSpace(i.Get(field)) != "" {
			return false
		}
	}
	return true
}

// InfoFromFields copies fields into a record.
func InfoFromFields(f Fields) Info {
	return Info{Track: f.Track, Album: f.Album, Artist: f.Artist, AlbumArtist: f.AlbumArtist}
}
