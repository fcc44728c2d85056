// Package preflight provides readiness checks for the folders, database,
// host launchers and version type templates reel depends on.
//
// The CLI "reel doctor" command runs RunAll and prints one line per result.
// Checks never modify the filesystem except CheckDatabase, which opens (and
// so may create) the configured database.
package preflight
