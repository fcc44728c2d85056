package padnum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"reel/internal/faults"
)

// FormatError reports a value that cannot be converted between its number
// and padded string forms.
type FormatError struct {
	Value  string
	Prefix string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("padded number %q (prefix %q): %s", e.Value, e.Prefix, e.Reason)
}

// Is matches faults.ErrValidation.
func (e *FormatError) Is(target error) bool {
	return target == faults.ErrValidation
}

// Format zero-pads number to padding digits and prepends prefix. Values wider
// than padding are written in full.
func Format(number int, prefix string, padding int) (string, error) {
	if number < 0 {
		return "", &FormatError{Value: strconv.Itoa(number), Prefix: prefix, Reason: "number must not be negative"}
	}
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("%s%0*d", prefix, padding, number), nil
}

// Parse strips len(prefix) leading characters and parses the remainder as a
// non-negative integer. Parse does not check that the stripped characters
// equal prefix; use Validate for that.
func Parse(value, prefix string) (int, error) {
	if len(value) < len(prefix) {
		return 0, &FormatError{Value: value, Prefix: prefix, Reason: "shorter than prefix"}
	}
	rest := value[len(prefix):]
	number, err := strconv.Atoi(rest)
	if err != nil {
		return 0, &FormatError{Value: value, Prefix: prefix, Reason: "not an integer"}
	}
	if number < 0 {
		return 0, &FormatError{Value: value, Prefix: prefix, Reason: "number must not be negative"}
	}
	return number, nil
}

// Validate checks that value is exactly prefix followed by one or more digits.
// Padding is not enforced.
func Validate(value, prefix string) error {
	return New(prefix, 0).Validate(value)
}

// Spec pairs a prefix with a write padding and a compiled read pattern.
type Spec struct {
	Prefix  string
	Padding int
	pattern *regexp.Regexp
}

// New builds a Spec for prefix and padding.
func New(prefix string, padding int) Spec {
	return Spec{
		Prefix:  prefix,
		Padding: padding,
		pattern: regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + "[0-9]+$"),
	}
}

// Format renders number with s.Prefix and s.Padding.
func (s Spec) Format(number int) (string, error) {
	return Format(number, s.Prefix, s.Padding)
}

// Parse validates value against the prefix pattern and converts it.
func (s Spec) Parse(value string) (int, error) {
	if err := s.Validate(value); err != nil {
		return 0, err
	}
	return Parse(value, s.Prefix)
}

// Validate checks value against ^prefix[0-9]+$.
func (s Spec) Validate(value string) error {
	pattern := s.pattern
	if pattern == nil {
		pattern = regexp.MustCompile("^" + regexp.QuoteMeta(s.Prefix) + "[0-9]+$")
	}
	if strings.TrimSpace(value) == "" {
		return &FormatError{Value: value, Prefix: s.Prefix, Reason: "empty"}
	}
	if !pattern.MatchString(value) {
		return &FormatError{Value: value, Prefix: s.Prefix, Reason: "does not match prefix followed by digits"}
	}
	return nil
}
