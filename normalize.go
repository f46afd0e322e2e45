package officeai

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text for storage keys and comparisons: lower-case,
// diacritics stripped, everything outside [a-z0-9] and whitespace removed,
// whitespace collapsed. Two questions are the same iff their normalized forms
// are equal.
func Normalize(text string) string {
	folded := FoldAccents(strings.ToLower(text))

	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

// FoldAccents decomposes text and drops combining marks ("fórmula" -> "formula").
// Case and punctuation are preserved.
func FoldAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Tokens returns the whitespace-delimited tokens of the normalized text.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// Jaccard returns the similarity of two token sets: |a ∩ b| / |a ∪ b|.
// Either set being empty yields zero.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}
