// Package matcher pairs operator names from different sources.
// Names are canonicalized with Normalize and compared by equality or
// containment; the first qualifying registry record wins.
package matcher

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks is the Combining Diacritical Marks block (U+0300 to U+036F).
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

var (
	parenthesized = regexp.MustCompile(`\([^)]*\)`)
	stopwords     = regexp.MustCompile(`\b(movil|mobile|cellular|wireless|telecom|communications|ltd|inc|s\.a|gmbh)\b`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]`)
)

// bareStopwords are the stopwords that can survive as a whole normalized name.
var bareStopwords = []string{"movil", "mobile", "cellular", "wireless", "telecom", "communications", "ltd", "inc", "gmbh"}

// Normalize canonicalizes an operator name for comparison: lowercase,
// diacritics stripped, parenthesized text and corporate stopwords removed,
// and everything outside [a-z0-9] dropped. Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningMarks)))
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	s = parenthesized.ReplaceAllString(s, "")
	s = stopwords.ReplaceAllString(s, "")
	s = nonAlnum.ReplaceAllString(s, "")

	// Joining fragments can spell a stopword ("mobi le"); a second pass would remove it.
	if slices.Contains(bareStopwords, s) {
		return ""
	}
	return s
}
