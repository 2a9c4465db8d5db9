package vectorizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var corpus = []string{
	"free monei win",
	"call free prize claim",
	"lar joke wif oni",
	"free free call",
	"",
}

func TestCountVectorizer_FitTransform(t *testing.T) {
	req := require.New(t)

	cv := NewCountVectorizer(0)
	rows, err := cv.FitTransform(corpus)
	req.NoError(err)

	req.Equal([]string{"call", "claim", "free", "joke", "lar", "monei", "oni", "prize", "wif", "win"}, cv.Terms())
	req.Len(rows, len(corpus))
	for _, row := range rows {
		req.Equal(cv.Size(), row.Len())
		req.Len(row.Dense(), cv.Size())
	}

	free := cv.Vocabulary()["free"]
	req.Equal(3.0, rows[3].At(free))
	req.Equal(1.0, rows[3].At(cv.Vocabulary()["call"]))
	req.Equal(0, rows[4].Nnz())
}

func TestCountVectorizer_MaxFeaturesAndTieBreak(t *testing.T) {
	req := require.New(t)

	// counts: free=4, call=2, everything else 1; ties resolve byte-wise ascending
	cv := NewCountVectorizer(3)
	req.NoError(cv.Fit(corpus))

	req.Equal(3, cv.Size())
	req.Equal([]string{"call", "claim", "free"}, cv.Terms())
}

func TestCountVectorizer_VocabularyNeverExceedsMax(t *testing.T) {
	docs := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		docs = append(docs, fmt.Sprintf("tok%d tok%d common", i, i%7))
	}

	for _, limit := range []int{1, 5, 10, 100} {
		t.Run(fmt.Sprintf("max=%d", limit), func(t *testing.T) {
			req := require.New(t)
			cv := NewCountVectorizer(limit)
			rows, err := cv.FitTransform(docs)
			req.NoError(err)
			req.LessOrEqual(cv.Size(), limit)
			for _, row := range rows {
				req.Equal(cv.Size(), row.Len())
			}
		})
	}
}

func TestCountVectorizer_Deterministic(t *testing.T) {
	req := require.New(t)

	a := NewCountVectorizer(4)
	b := NewCountVectorizer(4)
	req.NoError(a.Fit(corpus))
	req.NoError(b.Fit(corpus))
	req.Equal(a.Terms(), b.Terms())
}

func TestCountVectorizer_EmptyCorpus(t *testing.T) {
	req := require.New(t)

	_, err := NewCountVectorizer(10).FitTransform([]string{"", "   "})
	req.ErrorIs(err, ErrEmptyVocabulary)

	_, err = NewCountVectorizer(10).TransformAll(corpus)
	req.ErrorIs(err, ErrNotFitted)
}

func TestCountVectorizer_TransformIgnoresUnknownTokens(t *testing.T) {
	req := require.New(t)

	cv := NewCountVectorizer(0)
	req.NoError(cv.Fit(corpus))

	v := cv.Transform("free unseen free")
	req.Equal(1, v.Nnz())
	req.Equal(2.0, v.At(cv.Vocabulary()["free"]))
}

func TestRestore(t *testing.T) {
	req := require.New(t)

	fitted := NewCountVectorizer(5)
	req.NoError(fitted.Fit(corpus))

	restored, err := Restore(fitted.Terms(), 5)
	req.NoError(err)
	req.Equal(fitted.Vocabulary(), restored.Vocabulary())
	for _, doc := range corpus {
		req.Equal(fitted.Transform(doc), restored.Transform(doc))
	}

	_, err = Restore([]string{"a", "a"}, 0)
	req.Error(err)
	_, err = Restore([]string{"a", ""}, 0)
	req.Error(err)
	_, err = Restore(nil, 0)
	req.ErrorIs(err, ErrEmptyVocabulary)
	_, err = Restore([]string{"a", "b"}, 1)
	req.Error(err)
}

func TestVector_Dot(t *testing.T) {
	v := Vector{Indices: []int{0, 2}, Values: []float64{2, 3}, Dim: 3}
	require.Equal(t, 2*0.5+3*2.0, v.Dot([]float64{0.5, 10, 2}))
	require.Equal(t, []float64{2, 0, 3}, v.Dense())
}
