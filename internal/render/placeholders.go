package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"reel/internal/faults"
	"reel/internal/padnum"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_]+)(?::([0-9]+))?\s*\}\}`)

type placeholder struct {
	numeric bool
	value   func(v values) string
	number  func(v values) int
}

// values is a fully resolved context, ready for substitution.
type values struct {
	ctx      Context
	baseName string
	revision string
	version  string
}

var placeholders = map[string]placeholder{
	"base_name":       {value: func(v values) string { return v.baseName }},
	"sub_name":        {value: func(v values) string { return v.ctx.SubName }},
	"type_code":       {value: func(v values) string { return v.ctx.TypeCode }},
	"type_name":       {value: func(v values) string { return v.ctx.TypeName }},
	"take_name":       {value: func(v values) string { return v.ctx.TakeName }},
	"revision":        {value: func(v values) string { return v.revision }},
	"revision_number": {numeric: true, number: func(v values) int { return v.ctx.Revision }},
	"version":         {value: func(v values) string { return v.version }},
	"version_number":  {numeric: true, number: func(v values) int { return v.ctx.Version }},
	"user_initials":   {value: func(v values) string { return v.ctx.UserInitials }},
	"extension":       {value: func(v values) string { return strings.TrimPrefix(v.ctx.Extension, ".") }},
	"sequence_code":   {value: func(v values) string { return v.ctx.SequenceCode }},
	"project_code":    {value: func(v values) string { return v.ctx.ProjectCode }},
	"shot_code":       {value: func(v values) string { return v.ctx.ShotCode }},
}

// Placeholders returns the recognized placeholder names, sorted.
func Placeholders() []string {
	names := make([]string, 0, len(placeholders))
	for name := range placeholders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsParametric reports whether template contains placeholder markers.
func IsParametric(template string) bool {
	return strings.Contains(template, "{{")
}

// Check validates a template offline. It reports unknown placeholders,
// padding on non-numeric placeholders and unbalanced markers.
func Check(template string) error {
	var problems []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		p, ok := placeholders[match[1]]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("unknown placeholder %q", match[1]))
		case match[2] != "" && !p.numeric:
			problems = append(problems, fmt.Sprintf("placeholder %q does not take a padding", match[1]))
		}
	}
	stripped := placeholderPattern.ReplaceAllString(template, "")
	if strings.Contains(stripped, "{{") || strings.Contains(stripped, "}}") {
		problems = append(problems, "unbalanced placeholder markers")
	}
	if len(problems) > 0 {
		return faults.Wrap(faults.ErrConfiguration, "render", "check template", strconv.Quote(template)+": "+strings.Join(problems, "; "), nil)
	}
	return nil
}

func substitute(template string, v values) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		match := placeholderPattern.FindStringSubmatch(token)
		p, ok := placeholders[match[1]]
		if !ok {
			return token
		}
		if !p.numeric {
			return p.value(v)
		}
		width := 0
		if match[2] != "" {
			width, _ = strconv.Atoi(match[2])
		}
		formatted, err := padnum.Format(p.number(v), "", width)
		if err != nil {
			return token
		}
		return formatted
	})
}
