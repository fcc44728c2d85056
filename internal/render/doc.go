// Package render expands a version type's templates against an entity
// context into a storage path, a file name and an output path.
//
// A template with no {{placeholder}} markers is a literal folder name from an
// old-style project: it is joined with the sequence (or project) root and the
// artifact's base name. Parametric templates substitute every known
// placeholder and leave unknown ones verbatim; use Check to catch those
// offline. Rendering never touches the filesystem.
package render
