// Package version models versioned artifacts and creates new versions.
//
// A Versionable (an asset or a shot) owns an ordered list of Versions. A
// Version carries its identity fields and computes its storage path, file
// name and output path from its type's templates on demand; changing any
// identity field drops the computed paths.
//
// Service.Create chooses the version and revision numbers through a
// numbering.Authority reading from the Repository, renders the paths and
// commits. A DuplicateVersionError from the commit is returned unchanged so
// the caller can retry.
package version
