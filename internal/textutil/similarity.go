package textutil

import "strings"

// SuggestionThreshold is the similarity a candidate needs to be suggested.
const SuggestionThreshold = 0.5

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		if other, ok := b.grams[gram]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Closest returns the candidate most similar to value when it reaches
// SuggestionThreshold. An exact match, ignoring case, is never suggested
// since it is not a typo. Ties go to the earlier candidate.
func Closest(value string, candidates []string) (string, bool) {
	target := NewFingerprint(value)
	if target == nil {
		return "", false
	}
	var (
		best      string
		bestScore float64
	)
	for _, candidate := range candidates {
		if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(value)) {
			continue
		}
		score := CosineSimilarity(target, NewFingerprint(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < SuggestionThreshold {
		return "", false
	}
	return best, true
}

// DidYouMean formats the suggestion for value as a message suffix, or
// returns "" when nothing is close.
func DidYouMean(value string, candidates []string) string {
	if best, ok := Closest(value, candidates); ok {
		return " (did you mean " + best + "?)"
	}
	return ""
}
