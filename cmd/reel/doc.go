// Package main hosts the reel CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the hierarchy store,
// the version service and the legacy folder index. A commandContext resolves
// the configuration once per invocation; commands that touch the database
// open a session, which owns the logger, workspace and store for the
// duration of the command.
//
// Keep this package thin: behaviour belongs in internal packages, and the
// commands here only parse flags, call them and print results.
package main
