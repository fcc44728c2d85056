package naming

import (
	"fmt"
	"strings"

	"reel/internal/faults"
)

// Record is the structured form of a canonical file name.
type Record struct {
	BaseName     string
	SubName      string
	TypeName     string
	Revision     int
	HasRevision  bool
	Version      int
	HasVersion   bool
	UserInitials string
	Notes        string
	Extension    string
}

// Decoded is the outcome of decoding a candidate name. Invalid candidates are
// expected while scanning shared folders and are not errors.
type Decoded struct {
	Record   Record
	Valid    bool
	Reason   string
	BaseInfo bool
	FullInfo bool
}

// TypeResolver maps a type-name field to the canonical name of a registered
// VersionType.
type TypeResolver interface {
	ResolveTypeName(name string) (string, bool)
}

// TypeSet is a fixed list of canonical type names, matched exactly.
type TypeSet []string

// ResolveTypeName implements TypeResolver.
func (s TypeSet) ResolveTypeName(name string) (string, bool) {
	for _, candidate := range s {
		if candidate == name {
			return candidate, true
		}
	}
	return "", false
}

// FieldProblem names one missing or malformed field.
type FieldProblem struct {
	Field  string
	Reason string
}

// IncompleteRecordError is returned when a record cannot be encoded because a
// required field is missing or malformed.
type IncompleteRecordError struct {
	Problems []FieldProblem
}

func (e *IncompleteRecordError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+" "+p.Reason)
	}
	return fmt.Sprintf("incomplete naming record: %s", strings.Join(parts, "; "))
}

// Is matches faults.ErrValidation.
func (e *IncompleteRecordError) Is(target error) bool {
	return target == faults.ErrValidation
}

// Missing reports whether field appears among the problems.
func (e *IncompleteRecordError) Missing(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}
