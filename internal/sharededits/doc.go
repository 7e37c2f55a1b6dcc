// Package sharededits reads and writes community metadata records on the
// shared index.
//
// Reads are gated by the hashprefix engine so an identifier is only sent in
// full once the index is known to hold a record for it. Writes post
// directly. The song-level Get and Put helpers additionally skip songs that do
// not come from the configured platform.
package sharededits
