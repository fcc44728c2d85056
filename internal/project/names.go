package project

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"reel/internal/faults"
)

// NameError reports a name that has nothing usable left after
// canonicalization.
type NameError struct {
	Kind  string
	Value string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s name %q has no usable characters", e.Kind, e.Value)
}

// Is matches faults.ErrValidation.
func (e *NameError) Is(target error) bool {
	return target == faults.ErrValidation
}

var upper = cases.Upper(language.Und)

// CanonicalName folds accents, upper-cases, and joins the alphanumeric runs
// of value with underscores. Leading characters that are not letters are
// dropped so the result always starts with a letter.
//
//	"Big Buck bünny 2" -> "BIG_BUCK_BUNNY_2"
func CanonicalName(value string) (string, error) {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}
	folded = upper.String(folded)

	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	})
	joined := strings.Join(words, "_")
	joined = strings.TrimLeftFunc(joined, func(r rune) bool { return !unicode.IsLetter(r) })
	if joined == "" {
		return "", &NameError{Kind: "canonical", Value: value}
	}
	return joined, nil
}
