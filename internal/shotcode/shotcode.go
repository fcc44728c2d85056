package shotcode

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"reel/internal/faults"
	"reel/internal/padnum"
)

const (
	DefaultPrefix  = "SH"
	DefaultPadding = 3
)

// Alternates lists the suffix letters handed out by NextAlternate, in order.
const Alternates = "ABCDEFGHIJKLMNOPQRSTUVWXY"

// CodeError reports a shot number or code that cannot be converted.
type CodeError struct {
	Value  string
	Reason string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("shot %q: %s", e.Value, e.Reason)
}

// Is matches faults.ErrValidation.
func (e *CodeError) Is(target error) bool {
	return target == faults.ErrValidation
}

// Codec holds the configured shot prefix and padding.
type Codec struct {
	Prefix  string
	Padding int
}

// Default returns the SH-prefixed three-digit codec.
func Default() Codec {
	return Codec{Prefix: DefaultPrefix, Padding: DefaultPadding}
}

// Code converts a shot number such as "12" or "12a" into "SH012A". Input that
// already carries the prefix is accepted.
func (c Codec) Code(number string) (string, error) {
	n, suffix, err := c.split(number)
	if err != nil {
		return "", err
	}
	code, err := padnum.Format(n, c.Prefix, c.Padding)
	if err != nil {
		return "", &CodeError{Value: number, Reason: err.Error()}
	}
	return code + suffix, nil
}

// CodeInt converts a bare shot number.
func (c Codec) CodeInt(number int) (string, error) {
	return c.Code(strconv.Itoa(number))
}

// Number converts "SH012A" back to "12A". The result is a string because the
// alternate suffix is part of the shot's identity.
func (c Codec) Number(code string) (string, error) {
	n, suffix, err := c.split(code)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n) + suffix, nil
}

// Normalize returns the canonical number form of a shot number or code.
func (c Codec) Normalize(value string) (string, error) {
	return c.Number(value)
}

// NextAlternate returns the first "<number><letter>" not present in existing.
// existing may mix numbers and codes. ok is false once every letter is taken.
func (c Codec) NextAlternate(number string, existing []string) (string, bool, error) {
	n, _, err := c.split(number)
	if err != nil {
		return "", false, err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, value := range existing {
		if normalized, err := c.Number(value); err == nil {
			taken[normalized] = struct{}{}
		}
	}
	base := strconv.Itoa(n)
	for _, letter := range Alternates {
		candidate := base + string(letter)
		if _, exists := taken[candidate]; !exists {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// split extracts the leading digit run and the optional alternate letter.
func (c Codec) split(value string) (int, string, error) {
	raw := value
	value = strings.TrimSpace(value)
	if c.Prefix != "" && len(value) >= len(c.Prefix) && strings.EqualFold(value[:len(c.Prefix)], c.Prefix) {
		value = value[len(c.Prefix):]
	}
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, "", &CodeError{Value: raw, Reason: "must start with digits"}
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0, "", &CodeError{Value: raw, Reason: "number out of range"}
	}
	suffix := strings.ToUpper(value[end:])
	switch {
	case suffix == "":
	case len(suffix) == 1 && unicode.IsLetter(rune(suffix[0])):
	default:
		return 0, "", &CodeError{Value: raw, Reason: "alternate suffix must be a single letter"}
	}
	return n, suffix, nil
}
