// Package config loads, normalizes, and validates Hylla configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and OMDB_API_KEY. The Config type centralizes every knob the
// CLI and library need: the data directory holding the catalog database, log
// output, metadata service credentials, and notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
