package classifier

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/mikey/spam-model-trainer/internal/vectorizer"
)

// Partition is a train/test split of a labeled feature matrix.
// TrainIndex and TestIndex hold the original row positions.
type Partition struct {
	XTrain     []vectorizer.Vector
	XTest      []vectorizer.Vector
	YTrain     []int
	YTest      []int
	TrainIndex []int
	TestIndex  []int
}

// Split shuffles the rows with a PCG source seeded by seed and holds out
// ceil(testFraction*n) of them for testing. The same inputs always produce
// the same partition.
func Split(X []vectorizer.Vector, y []int, testFraction float64, seed int64) (*Partition, error) {
	n := len(X)
	if n != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrLengthMismatch, n, len(y))
	}
	if !(testFraction > 0 && testFraction < 1) {
		return nil, fmt.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}

	nTest := int(math.Ceil(testFraction * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, fmt.Errorf("%w: %d rows with test fraction %v", ErrSplitTooSmall, n, testFraction)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	perm := rng.Perm(n)

	p := &Partition{
		XTrain:     make([]vectorizer.Vector, 0, nTrain),
		XTest:      make([]vectorizer.Vector, 0, nTest),
		YTrain:     make([]int, 0, nTrain),
		YTest:      make([]int, 0, nTest),
		TrainIndex: make([]int, 0, nTrain),
		TestIndex:  make([]int, 0, nTest),
	}
	for i, row := range perm {
		if i < nTest {
			p.XTest = append(p.XTest, X[row])
			p.YTest = append(p.YTest, y[row])
			p.TestIndex = append(p.TestIndex, row)
			continue
		}
		p.XTrain = append(p.XTrain, X[row])
		p.YTrain = append(p.YTrain, y[row])
		p.TrainIndex = append(p.TrainIndex, row)
	}
	return p, nil
}
