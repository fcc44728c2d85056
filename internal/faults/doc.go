// Package faults defines the error markers shared by every reel package.
//
// Typed errors elsewhere in the module (format failures, incomplete records,
// missing render context, duplicate versions) match one of these markers via
// errors.Is so the CLI can classify a failure without knowing its concrete
// type. Use Wrap to attach component and operation context to a marker.
package faults
