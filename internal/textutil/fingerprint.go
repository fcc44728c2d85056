package textutil

import (
	"math"
	"strings"
)

// Fingerprint represents a character-bigram frequency vector.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text is blank.
func NewFingerprint(text string) *Fingerprint {
	grams := Bigrams(text)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, gram := range grams {
		counts[gram]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		grams: counts,
		norm:  math.Sqrt(norm),
	}
}

// Bigrams lowercases text, pads it with a space on each side and returns
// every two-rune window, so "SH" yields " s", "sh", "h ".
func Bigrams(text string) []string {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return nil
	}
	runes := []rune(" " + trimmed + " ")
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}

// GramCount returns the number of unique bigrams in the fingerprint.
func (f *Fingerprint) GramCount() int {
	if f == nil {
		return 0
	}
	return len(f.grams)
}
