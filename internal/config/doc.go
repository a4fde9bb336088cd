// Package config loads, normalizes, and validates folio configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/folio/config.toml or a
// project-local folio.toml. The Config type centralizes every knob the CLI
// needs: library and log directories, log format and level, and the
// per-entity-kind deduplication thresholds.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
