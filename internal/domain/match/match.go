// Package match scores keyword/candidate similarity with substring short-circuit
// and pg_trgm-style trigram Jaccard similarity.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Threshold is the similarity a candidate must exceed to count as a match.
const Threshold = 0.3

// Result is the best similarity found for a keyword among candidate texts.
type Result struct {
	Text  string
	Score float64
}

// Matched reports whether the result passes Threshold.
func (r Result) Matched() bool { return Matches(r.Score) }

// Matches reports whether score passes Threshold (strictly greater).
func Matches(score float64) bool { return score > Threshold }

var folder = cases.Fold()

// Normalize applies NFC, full Unicode case folding, trimming and whitespace collapsing.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Score returns the similarity of keyword to text in [0, 1].
// Substring containment (including equality) scores 1; empty input scores 0.
func Score(keyword, text string) float64 {
	k := Normalize(keyword)
	t := Normalize(text)
	if k == "" || t == "" {
		return 0
	}
	if strings.Contains(t, k) {
		return 1
	}
	return Similarity(trigrams(k), trigrams(t))
}

// Best scores keyword against each text and returns the highest scoring one.
// Ties keep the earliest text.
func Best(keyword string, texts ...string) Result {
	var best Result
	for _, text := range texts {
		if s := Score(keyword, text); s > best.Score {
			best = Result{Text: text, Score: s}
		}
	}
	return best
}

// Trigrams returns the padded trigram set of a string after normalization.
func Trigrams(s string) map[string]struct{} {
	return trigrams(Normalize(s))
}

// Similarity is the Jaccard coefficient of two trigram sets.
func Similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for g := range small {
		if _, ok := large[g]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

// trigrams splits normalized text into words on non-alphanumerics and pads each
// word with two leading blanks and one trailing blank before windowing.
func trigrams(s string) map[string]struct{} {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{})
	for _, w := range words {
		padded := make([]rune, 0, len(w)+3)
		padded = append(padded, ' ', ' ')
		padded = append(padded, []rune(w)...)
		padded = append(padded, ' ')
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}
