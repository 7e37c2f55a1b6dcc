// Package song models the record the enrichment pipeline works on.
//
// A Song carries identity fields observed by the connector (unique id,
// connector label, parsed fields) that pipeline stages never modify, plus a
// processed-fields layer and provenance flags that stages fill in. Info is the
// wire shape of a metadata record exchanged with the shared and local edit
// stores.
package song
