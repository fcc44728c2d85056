// Package textutil offers "did you mean" suggestions for mistyped names.
//
// Names are compared as character-bigram fingerprints, which works for the
// short upper-case codes used for version types, projects and sequences.
// Comparison ignores case and surrounding whitespace.
package textutil
