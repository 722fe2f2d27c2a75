package search

import "strings"

const (
	hardToPronounce = "qxzj"
	vowels          = "aeiou"
)

// ReadabilityScore rates how easy a label is to read aloud, 0 to 100.
func ReadabilityScore(name string) int {
	name = strings.ToLower(name)
	score := 100
	if extra := len(name) - 10; extra > 0 {
		score -= 2 * extra
	}
	if hasDigit(name) {
		score -= 10
	}
	if strings.Contains(name, "-") {
		score -= 5
	}
	if strings.ContainsAny(name, hardToPronounce) {
		score -= 5
	}
	return clampScore(score)
}

// BrandabilityScore rates how memorable a label is, 0 to 100.
func BrandabilityScore(name string) int {
	name = strings.ToLower(name)
	score := 50
	switch {
	case len(name) <= 6:
		score += 20
	case len(name) <= 8:
		score += 10
	}
	if ratio := vowelRatio(name); ratio >= 0.3 && ratio <= 0.6 {
		score += 15
	}
	if hasDigit(name) {
		score -= 20
	}
	if strings.Contains(name, "-") {
		score -= 15
	}
	return clampScore(score)
}

func buildMetadata(domain, name string) CandidateMetadata {
	return CandidateMetadata{
		Length:       len(domain),
		HasDigits:    hasDigit(name),
		HasHyphens:   strings.Contains(name, "-"),
		Readability:  ReadabilityScore(name),
		Brandability: BrandabilityScore(name),
	}
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func vowelRatio(s string) float64 {
	if s == "" {
		return 0
	}
	count := 0
	for _, r := range s {
		if strings.ContainsRune(vowels, r) {
			count++
		}
	}
	return float64(count) / float64(len(s))
}

func clampScore(score int) int {
	return max(0, min(100, score))
}
