// Package config loads, normalizes, and validates songsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SONGSYNC_BASE_URL. The Config type centralizes every knob the CLI and the
// pipeline need, so the remote index endpoint, request pacing, and the local
// edits database are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
