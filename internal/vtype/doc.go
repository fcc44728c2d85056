// Package vtype defines version types: the configured categories of
// deliverable, each with storage-path, file-name and output-path templates,
// a shot-dependency flag and the host environments it is valid in.
//
// A Type is immutable once built. A Registry resolves types by name for the
// naming codec and validates every template offline.
package vtype
