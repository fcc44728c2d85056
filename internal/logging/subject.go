package logging

import "strings"

// FormatSubject builds the project/sequence/shot subject shown in console
// output, e.g. "NIGHT/SQ01/SH010".
func FormatSubject(project, sequence, shot string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{project, sequence, shot} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "/")
}
