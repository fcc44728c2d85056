// Package numbering decides version and revision numbers for a series of
// records sharing a key.
//
// Every query re-reads the series from its source; nothing is cached between
// calls. Computing a number and committing it are separate steps, so a
// commit can still collide with another author. Stores report that as a
// DuplicateVersionError and callers retry from the query.
//
// Versions advance past the current maximum. Revisions stay on the current
// maximum until IncrementRevision is called.
package numbering
