// Package textproc turns raw message text into the normalized token stream the
// vectorizer consumes: lowercase, word tokens, alphanumeric only, stopwords
// removed, Porter-stemmed.
package textproc

import (
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Porter stems shrink or keep their length, so a fixed point is reached fast.
const maxStemPasses = 8

// Normalizer holds the read-only resources of the normalization pipeline.
// It is safe for concurrent use once constructed.
type Normalizer struct {
	stopwords map[string]struct{}
}

// NewNormalizer creates a normalizer that drops the given stopwords.
func NewNormalizer(stopwords []string) *Normalizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{stopwords: stops}
}

var defaultNormalizer = NewNormalizer(EnglishStopwords)

// Default returns the process-wide normalizer backed by EnglishStopwords.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize runs text through the default normalizer.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

// Normalize returns the surviving stems of text joined by single spaces.
// Normalize(Normalize(s)) == Normalize(s) for any s.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the surviving stems of text in order.
func (n *Normalizer) Tokens(text string) []string {
	lower := cases.Lower(language.Und).String(text)

	var out []string
	for _, tok := range Tokenize(lower) {
		if !IsAlnum(tok) || isPunctuation(tok) || n.IsStopword(tok) {
			continue
		}
		stem := n.stem(tok)
		// a stem can collide with a stopword ("wills" -> "will")
		if stem == "" || n.IsStopword(stem) {
			continue
		}
		out = append(out, stem)
	}
	return out
}

// IsStopword reports whether token is in the stopword set.
func (n *Normalizer) IsStopword(token string) bool {
	_, ok := n.stopwords[token]
	return ok
}

// StopwordCount returns the size of the stopword set.
func (n *Normalizer) StopwordCount() int {
	return len(n.stopwords)
}

// stem applies the Porter stemmer until the token stops changing.
func (n *Normalizer) stem(token string) string {
	current := token
	for i := 0; i < maxStemPasses; i++ {
		next := porterstemmer.StemString(current)
		if next == current {
			return current
		}
		current = next
	}
	return current
}
