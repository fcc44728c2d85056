// Package workspace builds the per-process context every command works in:
// the naming layout, shot codec, type registry, extension catalog and path
// renderer derived from one loaded configuration.
//
// A Workspace is created once at startup and passed to whatever needs it.
// There is no package-level state.
package workspace
