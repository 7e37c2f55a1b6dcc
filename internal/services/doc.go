// Package services defines shared utilities consumed by the pipeline stages and
// the remote store integrations.
//
// Key responsibilities:
//   - Context helpers that stamp song keys, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that separate protocol,
//     network, and rejection failures so callers classify them with errors.Is.
//
// Use these helpers when wiring new remote calls so failure classification
// stays uniform across the client.
package services
