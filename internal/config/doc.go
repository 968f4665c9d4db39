// Package config loads, normalizes, and validates postshow configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and resolves the config location from the
// POSTSHOW_CONFIG environment variable when no explicit path is given.
// Show profiles live here too: every show gets a [profiles.<name>] section
// carrying its encode bitrate and tag values.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
