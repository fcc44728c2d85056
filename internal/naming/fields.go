package naming

import (
	"strings"
)

// Fields is a partial update to a Record. Nil pointers and empty strings mean
// "leave unchanged". Every recognized key is listed here:
//
//	BaseName, SubName, TypeName  identity fields; TypeName must resolve
//	Revision | RevisionString    revision number, or its prefixed form
//	Version  | VersionString     version number, or its prefixed form
//	UserInitials, Notes          author and trailing free text
//	Extension                    file extension, with or without the dot
//
// When both forms of a number are given they must agree. Fields are checked
// as a unit before anything is written.
type Fields struct {
	BaseName       *string
	SubName        *string
	TypeName       *string
	Revision       *int
	RevisionString *string
	Version        *int
	VersionString  *string
	UserInitials   *string
	Notes          *string
	Extension      *string
}

// Apply returns rec updated with fields. On error rec is returned unchanged.
func (c *Codec) Apply(rec Record, fields Fields) (Record, error) {
	next := rec
	var problems []FieldProblem
	token := func(name string, value *string, dst *string) {
		if value == nil {
			return
		}
		v := strings.TrimSpace(*value)
		if c.layout.containsSeparator(v) {
			problems = append(problems, FieldProblem{Field: name, Reason: "must not contain separator " + c.layout.separator()})
			return
		}
		*dst = v
	}

	token(fieldBase.String(), fields.BaseName, &next.BaseName)
	if fields.SubName != nil && !c.layout.SubNameField && strings.TrimSpace(*fields.SubName) != "" {
		problems = append(problems, FieldProblem{Field: fieldSub.String(), Reason: "is not part of this layout"})
	} else {
		token(fieldSub.String(), fields.SubName, &next.SubName)
	}
	if fields.TypeName != nil {
		name := strings.TrimSpace(*fields.TypeName)
		if canonical, ok := c.resolveType(name); ok {
			next.TypeName = canonical
		} else {
			problems = append(problems, FieldProblem{Field: fieldType.String(), Reason: "is not a registered type"})
		}
	}

	if n, set, problem := c.number(fieldRevision.String(), fields.Revision, fields.RevisionString, c.layout.Revision.Parse); problem != nil {
		problems = append(problems, *problem)
	} else if set {
		next.Revision, next.HasRevision = n, true
	}
	if n, set, problem := c.number(fieldVersion.String(), fields.Version, fields.VersionString, c.layout.Version.Parse); problem != nil {
		problems = append(problems, *problem)
	} else if set {
		next.Version, next.HasVersion = n, true
	}

	token(fieldUser.String(), fields.UserInitials, &next.UserInitials)
	if fields.Notes != nil {
		next.Notes = strings.TrimSpace(*fields.Notes)
	}
	if fields.Extension != nil {
		next.Extension = normalizeExtension(*fields.Extension)
	}

	if len(problems) > 0 {
		return rec, &IncompleteRecordError{Problems: problems}
	}
	return next, nil
}

func (c *Codec) number(name string, value *int, text *string, parse func(string) (int, error)) (int, bool, *FieldProblem) {
	var (
		fromText int
		hasText  bool
	)
	if text != nil {
		n, err := parse(strings.TrimSpace(*text))
		if err != nil {
			return 0, false, &FieldProblem{Field: name, Reason: "is malformed: " + err.Error()}
		}
		fromText, hasText = n, true
	}
	switch {
	case value != nil && *value < 0:
		return 0, false, &FieldProblem{Field: name, Reason: "must not be negative"}
	case value != nil && hasText && *value != fromText:
		return 0, false, &FieldProblem{Field: name, Reason: "number and string forms disagree"}
	case value != nil:
		return *value, true, nil
	case hasText:
		return fromText, true, nil
	default:
		return 0, false, nil
	}
}

// String returns a pointer to s, for filling Fields.
func String(s string) *string { return &s }

// Int returns a pointer to n, for filling Fields.
func Int(n int) *int { return &n }
