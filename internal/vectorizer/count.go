// Package vectorizer converts normalized documents into bag-of-words count vectors.
package vectorizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptyVocabulary is returned when the corpus contains no tokens.
	ErrEmptyVocabulary = errors.New("empty vocabulary: corpus contains no tokens")
	// ErrNotFitted is returned when transforming before fitting.
	ErrNotFitted = errors.New("vectorizer is not fitted")
)

// CountVectorizer learns a vocabulary of the most frequent tokens and maps
// documents to token-count vectors over it.
//
// Selection keeps the MaxFeatures tokens with the highest total count across
// the corpus; equal counts are ordered by token, byte-wise ascending. The
// selected tokens are indexed in byte-wise ascending order.
type CountVectorizer struct {
	MaxFeatures int

	terms []string
	index map[string]int
}

// NewCountVectorizer creates a vectorizer capped at maxFeatures tokens.
// A non-positive maxFeatures leaves the vocabulary uncapped.
func NewCountVectorizer(maxFeatures int) *CountVectorizer {
	return &CountVectorizer{MaxFeatures: maxFeatures}
}

// Restore rebuilds a fitted vectorizer from persisted terms, where the
// position of each term is its feature index.
func Restore(terms []string, maxFeatures int) (*CountVectorizer, error) {
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if maxFeatures > 0 && len(terms) > maxFeatures {
		return nil, fmt.Errorf("vocabulary has %d terms, more than max_features %d", len(terms), maxFeatures)
	}

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		if term == "" {
			return nil, fmt.Errorf("empty term at index %d", i)
		}
		if _, dup := index[term]; dup {
			return nil, fmt.Errorf("duplicate term %q at index %d", term, i)
		}
		index[term] = i
	}

	return &CountVectorizer{
		MaxFeatures: maxFeatures,
		terms:       append([]string(nil), terms...),
		index:       index,
	}, nil
}

type termCount struct {
	term  string
	count int
}

// Fit learns the vocabulary from the corpus.
func (cv *CountVectorizer) Fit(corpus []string) error {
	counts := make(map[string]int)
	for _, doc := range corpus {
		for _, tok := range strings.Fields(doc) {
			counts[tok]++
		}
	}
	if len(counts) == 0 {
		return ErrEmptyVocabulary
	}

	ranked := make([]termCount, 0, len(counts))
	for term, c := range counts {
		ranked = append(ranked, termCount{term: term, count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].term < ranked[j].term
	})
	if cv.MaxFeatures > 0 && len(ranked) > cv.MaxFeatures {
		ranked = ranked[:cv.MaxFeatures]
	}

	terms := make([]string, len(ranked))
	for i, tc := range ranked {
		terms[i] = tc.term
	}
	sort.Strings(terms)

	cv.terms = terms
	cv.index = make(map[string]int, len(terms))
	for i, term := range terms {
		cv.index[term] = i
	}
	return nil
}

// FitTransform fits the vocabulary and transforms the corpus in one pass.
func (cv *CountVectorizer) FitTransform(corpus []string) ([]Vector, error) {
	if err := cv.Fit(corpus); err != nil {
		return nil, err
	}
	return cv.TransformAll(corpus)
}

// TransformAll converts every document of the corpus.
func (cv *CountVectorizer) TransformAll(corpus []string) ([]Vector, error) {
	if cv.index == nil {
		return nil, ErrNotFitted
	}
	rows := make([]Vector, len(corpus))
	for i, doc := range corpus {
		rows[i] = cv.Transform(doc)
	}
	return rows, nil
}

// Transform converts a single normalized document. Out-of-vocabulary tokens
// are ignored. An unfitted vectorizer yields a zero-dimension vector.
func (cv *CountVectorizer) Transform(doc string) Vector {
	counts := make(map[int]float64)
	for _, tok := range strings.Fields(doc) {
		if idx, ok := cv.index[tok]; ok {
			counts[idx]++
		}
	}

	v := Vector{Dim: len(cv.terms)}
	if len(counts) == 0 {
		return v
	}
	v.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		v.Indices = append(v.Indices, idx)
	}
	sort.Ints(v.Indices)
	v.Values = make([]float64, len(v.Indices))
	for k, idx := range v.Indices {
		v.Values[k] = counts[idx]
	}
	return v
}

// Size returns the vocabulary size.
func (cv *CountVectorizer) Size() int {
	return len(cv.terms)
}

// Terms returns a copy of the vocabulary ordered by feature index.
func (cv *CountVectorizer) Terms() []string {
	return append([]string(nil), cv.terms...)
}

// Term returns the token at feature index i.
func (cv *CountVectorizer) Term(i int) string {
	if i < 0 || i >= len(cv.terms) {
		return ""
	}
	return cv.terms[i]
}

// Vocabulary returns a copy of the token to feature index mapping.
func (cv *CountVectorizer) Vocabulary() map[string]int {
	out := make(map[string]int, len(cv.index))
	for k, v := range cv.index {
		out[k] = v
	}
	return out
}
