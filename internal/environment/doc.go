// Package environment describes the host applications a version type can be
// authored in.
//
// A host is chosen by an explicit Kind, never by matching a name string to
// an implementation at runtime. Driving a real application is the job of an
// adapter outside this module; the Standalone host works on plain files and
// backs version import.
package environment
