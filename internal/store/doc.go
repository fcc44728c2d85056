// Package store persists the hierarchy and the version records in SQLite.
//
// The schema enforces the invariants the numbering logic relies on: names
// are unique within their parent, and (base_name, take_name,
// version_number) is unique across all versions. AddVersion reports a
// violation of the latter as a *numbering.DuplicateVersionError so callers
// can recompute the number and retry. Rendered paths are never stored.
package store
