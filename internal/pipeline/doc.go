// Package pipeline runs enrichment stages over a song.
//
// Stages write only the processed field layer and flags. ExternalInfo merges
// the shared community record; UserInput merges the user's own saved edit.
// Both are outer boundaries: failures are logged and leave the song as it was.
package pipeline
