// Package logging assembles the slog loggers used across reel.
//
// It owns the console and JSON handlers, mirrors records into a per-day log
// file, and exposes context helpers so version operations can tag every
// line with a correlation id and the project, sequence and shot they touch.
// NewNop provides a discarding logger for tests and optional wiring.
package logging
