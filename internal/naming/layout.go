package naming

import (
	"strings"

	"reel/internal/padnum"
)

const (
	DefaultSeparator       = "_"
	DefaultRevisionPrefix  = "r"
	DefaultRevisionPadding = 2
	DefaultVersionPrefix   = "v"
	DefaultVersionPadding  = 3
)

type field int

const (
	fieldBase field = iota
	fieldSub
	fieldType
	fieldRevision
	fieldVersion
	fieldUser
)

func (f field) String() string {
	switch f {
	case fieldBase:
		return "base_name"
	case fieldSub:
		return "sub_name"
	case fieldType:
		return "type_name"
	case fieldRevision:
		return "revision"
	case fieldVersion:
		return "version"
	case fieldUser:
		return "user_initials"
	default:
		return "unknown"
	}
}

var (
	fieldsWithSubName    = []field{fieldBase, fieldSub, fieldType, fieldRevision, fieldVersion, fieldUser}
	fieldsWithoutSubName = []field{fieldBase, fieldType, fieldRevision, fieldVersion, fieldUser}
)

// Layout describes the flat file-name convention of a project: the field
// separator, whether the sub-name field exists, and the revision and version
// number formats.
type Layout struct {
	Separator    string
	SubNameField bool
	Revision     padnum.Spec
	Version      padnum.Spec
}

// DefaultLayout returns the "_"-separated layout with a sub-name field,
// r-prefixed two-digit revisions and v-prefixed three-digit versions.
func DefaultLayout() Layout {
	return Layout{
		Separator:    DefaultSeparator,
		SubNameField: true,
		Revision:     padnum.New(DefaultRevisionPrefix, DefaultRevisionPadding),
		Version:      padnum.New(DefaultVersionPrefix, DefaultVersionPadding),
	}
}

// fields is the single place the sub-name flag is consulted.
func (l Layout) fields() []field {
	if l.SubNameField {
		return fieldsWithSubName
	}
	return fieldsWithoutSubName
}

// MinFields is the number of separator-delimited fields a valid name needs.
func (l Layout) MinFields() int {
	return len(l.fields())
}

func (l Layout) separator() string {
	if l.Separator == "" {
		return DefaultSeparator
	}
	return l.Separator
}

func (l Layout) containsSeparator(value string) bool {
	return strings.Contains(value, l.separator())
}
