// Package metadataapi is the HTTP transport for the shared music metadata
// index.
//
// It knows the four endpoints the client consumes (prefix length, digest
// range, record fetch, record submission), paces outgoing requests with a
// token bucket, and maps transport failures to services.ErrNetwork. It does
// not interpret status codes beyond that: the hashprefix engine and the shared
// edits store decide what a given status means for their protocol.
package metadataapi
