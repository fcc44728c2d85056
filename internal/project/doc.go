// Package project holds the hierarchy records every artifact lives under:
// projects, their sequences, and the shots of a sequence.
//
// Records are plain values. Names are canonicalized on construction and the
// frame range of a shot is kept valid by its setters.
package project
