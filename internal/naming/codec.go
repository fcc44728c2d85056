package naming

import (
	"path/filepath"
	"strings"
)

// Codec encodes records to canonical file names and decodes candidate names
// back into records.
type Codec struct {
	layout Layout
	types  TypeResolver
}

// NewCodec builds a codec for layout. types may be nil, in which case any
// non-empty type field is accepted verbatim.
func NewCodec(layout Layout, types TypeResolver) *Codec {
	return &Codec{layout: layout, types: types}
}

// Layout returns the codec's field layout.
func (c *Codec) Layout() Layout {
	return c.layout
}

// Decode splits name (without extension) into a record. The result is flagged
// invalid when the field count is short, the type is unknown, or a number
// field is malformed.
func (c *Codec) Decode(name string) Decoded {
	sep := c.layout.separator()
	fields := c.layout.fields()
	parts := strings.Split(name, sep)
	if len(parts) < len(fields) {
		return Decoded{Reason: "too few fields"}
	}

	var rec Record
	var revisionText, versionText string
	for i, f := range fields {
		value := parts[i]
		switch f {
		case fieldBase:
			rec.BaseName = value
		case fieldSub:
			rec.SubName = value
		case fieldType:
			rec.TypeName = value
		case fieldRevision:
			revisionText = value
		case fieldVersion:
			versionText = value
		case fieldUser:
			rec.UserInitials = value
		}
	}
	if len(parts) > len(fields) {
		rec.Notes = strings.Join(parts[len(fields):], sep)
	}

	canonical, ok := c.resolveType(rec.TypeName)
	if !ok {
		return Decoded{Record: rec, Reason: "unknown type " + rec.TypeName}
	}
	rec.TypeName = canonical

	revision, err := c.layout.Revision.Parse(revisionText)
	if err != nil {
		return Decoded{Record: rec, Reason: err.Error()}
	}
	version, err := c.layout.Version.Parse(versionText)
	if err != nil {
		return Decoded{Record: rec, Reason: err.Error()}
	}
	rec.Revision, rec.HasRevision = revision, true
	rec.Version, rec.HasVersion = version, true

	return Decoded{
		Record:   rec,
		Valid:    true,
		BaseInfo: c.HasBaseInfo(rec),
		FullInfo: c.HasFullInfo(rec),
	}
}

// DecodeFile decodes a file name that may carry an extension.
func (c *Codec) DecodeFile(fileName string) Decoded {
	ext := filepath.Ext(fileName)
	decoded := c.Decode(strings.TrimSuffix(fileName, ext))
	decoded.Record.Extension = ext
	return decoded
}

// Encode joins a complete record into its canonical name. The extension is
// not part of the name; see EncodeFile.
func (c *Codec) Encode(rec Record) (string, error) {
	canonical, err := c.check(rec)
	if err != nil {
		return "", err
	}
	revision, _ := c.layout.Revision.Format(rec.Revision)
	version, _ := c.layout.Version.Format(rec.Version)

	parts := make([]string, 0, len(c.layout.fields())+1)
	for _, f := range c.layout.fields() {
		switch f {
		case fieldBase:
			parts = append(parts, rec.BaseName)
		case fieldSub:
			parts = append(parts, rec.SubName)
		case fieldType:
			parts = append(parts, canonical)
		case fieldRevision:
			parts = append(parts, revision)
		case fieldVersion:
			parts = append(parts, version)
		case fieldUser:
			parts = append(parts, rec.UserInitials)
		}
	}
	if rec.Notes != "" {
		parts = append(parts, rec.Notes)
	}
	return strings.Join(parts, c.layout.separator()), nil
}

// EncodeFile encodes rec and appends its extension.
func (c *Codec) EncodeFile(rec Record) (string, error) {
	name, err := c.Encode(rec)
	if err != nil {
		return "", err
	}
	return name + normalizeExtension(rec.Extension), nil
}

// HasBaseInfo reports whether the identity fields are all present.
func (c *Codec) HasBaseInfo(rec Record) bool {
	if rec.BaseName == "" || rec.TypeName == "" {
		return false
	}
	if c.layout.SubNameField && rec.SubName == "" {
		return false
	}
	return true
}

// HasFullInfo reports whether every field Encode requires is present.
func (c *Codec) HasFullInfo(rec Record) bool {
	return c.HasBaseInfo(rec) && rec.HasRevision && rec.HasVersion && rec.UserInitials != ""
}

// BaseName joins the identity fields (base, sub, type) the way they lead a
// full name. Used as the grouping prefix when matching a series on disk.
// The type is written under its registered name when it resolves.
func (c *Codec) BaseName(rec Record) string {
	if canonical, ok := c.resolveType(rec.TypeName); ok {
		rec.TypeName = canonical
	}
	sep := c.layout.separator()
	parts := []string{rec.BaseName}
	if c.layout.SubNameField {
		parts = append(parts, rec.SubName)
	}
	parts = append(parts, rec.TypeName)
	return strings.Join(parts, sep)
}

// CanonicalType returns rec with its type field replaced by the registered
// name. An unregistered type is an *IncompleteRecordError.
func (c *Codec) CanonicalType(rec Record) (Record, error) {
	canonical, ok := c.resolveType(rec.TypeName)
	if !ok {
		return rec, &IncompleteRecordError{Problems: []FieldProblem{{Field: fieldType.String(), Reason: "is not a registered type"}}}
	}
	rec.TypeName = canonical
	return rec, nil
}

func (c *Codec) check(rec Record) (string, error) {
	var problems []FieldProblem
	requireToken := func(name, value string) {
		switch {
		case strings.TrimSpace(value) == "":
			problems = append(problems, FieldProblem{Field: name, Reason: "is required"})
		case c.layout.containsSeparator(value):
			problems = append(problems, FieldProblem{Field: name, Reason: "must not contain separator " + c.layout.separator()})
		}
	}

	requireToken(fieldBase.String(), rec.BaseName)
	if c.layout.SubNameField {
		requireToken(fieldSub.String(), rec.SubName)
	}
	requireToken(fieldType.String(), rec.TypeName)
	canonical := rec.TypeName
	if rec.TypeName != "" {
		resolved, ok := c.resolveType(rec.TypeName)
		if !ok {
			problems = append(problems, FieldProblem{Field: fieldType.String(), Reason: "is not a registered type"})
		} else {
			canonical = resolved
		}
	}
	switch {
	case !rec.HasRevision:
		problems = append(problems, FieldProblem{Field: fieldRevision.String(), Reason: "is required"})
	case rec.Revision < 0:
		problems = append(problems, FieldProblem{Field: fieldRevision.String(), Reason: "must not be negative"})
	}
	switch {
	case !rec.HasVersion:
		problems = append(problems, FieldProblem{Field: fieldVersion.String(), Reason: "is required"})
	case rec.Version < 0:
		problems = append(problems, FieldProblem{Field: fieldVersion.String(), Reason: "must not be negative"})
	}
	requireToken(fieldUser.String(), rec.UserInitials)

	if len(problems) > 0 {
		return "", &IncompleteRecordError{Problems: problems}
	}
	return canonical, nil
}

func (c *Codec) resolveType(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if c.types == nil {
		return name, true
	}
	return c.types.ResolveTypeName(name)
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
