// Package legacy runs the naming engine against plain folders, without a
// database. Every record is derived from a file name; existence and the
// latest version of a series are recomputed from directory listings on each
// call and are advisory until the file is actually written.
//
// Claim is the write path: it serializes concurrent authors on a lock file
// in the target folder, recomputes the next number under the lock and
// creates the file exclusively.
package legacy
