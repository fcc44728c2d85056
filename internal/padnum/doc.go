// Package padnum converts revision and version numbers to and from their
// prefixed, zero-padded string forms ("v007" <-> 7).
package padnum
