// Package hashprefix implements the anonymity check against the shared
// metadata index.
//
// An identifier is hashed locally and only a server-chosen number of leading
// digest characters is sent to the range endpoint. The server answers with
// every full digest sharing that prefix and the client confirms membership on
// its own, so the index never learns which item was looked up.
//
// The prefix length is cached per Engine and dropped when the server answers
// "Incorrect prefix length requested."; the engine then refetches it and
// retries a bounded number of times. Any other rejection is a
// services.ErrProtocol failure and is never retried.
package hashprefix
