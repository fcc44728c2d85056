// Package config loads, normalizes, and validates reel configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours the REEL_PROJECTS_ROOT environment override.
// The Config type carries the naming convention of a studio (separator,
// prefixes, paddings, default take), its host environments and the version
// types with their templates.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
