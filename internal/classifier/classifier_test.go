package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikey/spam-model-trainer/internal/vectorizer"
)

// toyData builds a separable set: spam rows use feature 0, ham rows feature 1,
// and every row shares feature 2.
func toyData(n int) ([]vectorizer.Vector, []int) {
	X := make([]vectorizer.Vector, 0, 2*n)
	y := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		X = append(X, vectorizer.Vector{Indices: []int{0, 2}, Values: []float64{2, 1}, Dim: 3})
		y = append(y, 1)
		X = append(X, vectorizer.Vector{Indices: []int{1, 2}, Values: []float64{2, 1}, Dim: 3})
		y = append(y, 0)
	}
	return X, y
}

func TestSplit(t *testing.T) {
	req := require.New(t)

	X, y := toyData(50)
	p, err := Split(X, y, 0.2, 42)
	req.NoError(err)

	req.Len(p.XTest, 20)
	req.Len(p.YTest, 20)
	req.Len(p.XTrain, 80)
	req.Len(p.YTrain, 80)

	seen := make(map[int]bool)
	for _, idx := range append(append([]int(nil), p.TrainIndex...), p.TestIndex...) {
		req.False(seen[idx], "row %d assigned twice", idx)
		seen[idx] = true
	}
	req.Len(seen, 100)

	for i, idx := range p.TestIndex {
		req.Equal(y[idx], p.YTest[i])
	}
}

func TestSplit_Deterministic(t *testing.T) {
	req := require.New(t)

	X, y := toyData(50)
	a, err := Split(X, y, 0.2, 7)
	req.NoError(err)
	b, err := Split(X, y, 0.2, 7)
	req.NoError(err)
	c, err := Split(X, y, 0.2, 8)
	req.NoError(err)

	req.Equal(a.TestIndex, b.TestIndex)
	req.Equal(a.TrainIndex, b.TrainIndex)
	req.NotEqual(a.TestIndex, c.TestIndex)
}

func TestSplit_Errors(t *testing.T) {
	X, y := toyData(1)

	tests := []struct {
		name     string
		X        []vectorizer.Vector
		y        []int
		fraction float64
		wantIs   error
	}{
		{name: "length mismatch", X: X, y: y[:1], fraction: 0.5, wantIs: ErrLengthMismatch},
		{name: "fraction zero", X: X, y: y, fraction: 0},
		{name: "fraction one", X: X, y: y, fraction: 1},
		{name: "no training rows", X: X[:1], y: y[:1], fraction: 0.5, wantIs: ErrSplitTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.X, tt.y, tt.fraction, 1)
			require.Error(t, err)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestFit_Solvers(t *testing.T) {
	for _, solver := range []Solver{SolverGD, SolverSGD} {
		t.Run(string(solver), func(t *testing.T) {
			req := require.New(t)

			X, y := toyData(20)
			opts := DefaultOptions()
			opts.Solver = solver
			opts.BatchSize = 8

			model, res, err := Fit(X, y, opts)
			req.NoError(err)
			req.Equal(3, model.NumFeatures())
			req.Greater(res.Iterations, 0)
			req.Greater(model.Weights[0], 0.0)
			req.Less(model.Weights[1], 0.0)
			req.Equal(y, model.PredictAll(X))

			spam := X[0]
			req.Greater(model.Probability(spam), 0.5)
		})
	}
}

func TestFit_Deterministic(t *testing.T) {
	req := require.New(t)

	X, y := toyData(15)
	opts := DefaultOptions()
	opts.Solver = SolverSGD
	opts.MaxIter = 50

	a, ra, err := Fit(X, y, opts)
	req.NoError(err)
	b, rb, err := Fit(X, y, opts)
	req.NoError(err)

	req.Equal(a.Weights, b.Weights)
	req.Equal(a.Bias, b.Bias)
	req.Equal(ra, rb)
}

func TestFit_NotConvergedStillUsable(t *testing.T) {
	req := require.New(t)

	X, y := toyData(10)
	opts := DefaultOptions()
	opts.MaxIter = 1
	opts.Tolerance = 1e-12

	model, res, err := Fit(X, y, opts)
	req.NoError(err)
	req.False(res.Converged)
	req.Equal(1, res.Iterations)
	req.Equal(y, model.PredictAll(X))
}

func TestFit_Errors(t *testing.T) {
	X, y := toyData(3)
	mixed := append(append([]vectorizer.Vector(nil), X...), vectorizer.Vector{Dim: 5})

	tests := []struct {
		name   string
		X      []vectorizer.Vector
		y      []int
		opts   Options
		wantIs error
	}{
		{name: "empty", wantIs: ErrNoSamples},
		{name: "length mismatch", X: X, y: y[:2], wantIs: ErrLengthMismatch},
		{name: "dimension mismatch", X: mixed, y: append(append([]int(nil), y...), 0), wantIs: ErrDimensionMismatch},
		{name: "invalid label", X: X, y: []int{0, 1, 2, 0, 1, 0}, wantIs: ErrInvalidLabel},
		{name: "single class", X: X, y: []int{1, 1, 1, 1, 1, 1}, wantIs: ErrSingleClass},
		{name: "unknown solver", X: X, y: y, opts: Options{Solver: "lbfgs"}, wantIs: ErrUnknownSolver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Fit(tt.X, tt.y, tt.opts)
			require.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestModel_Contributions(t *testing.T) {
	req := require.New(t)

	m := &Model{Weights: []float64{1.5, -2, 0.25}}
	x := vectorizer.Vector{Indices: []int{0, 1, 2}, Values: []float64{1, 1, 4}, Dim: 3}

	got := m.Contributions(x)
	req.Equal([]Contribution{{Index: 1, Value: -2}, {Index: 0, Value: 1.5}, {Index: 2, Value: 1}}, got)
}

func TestComputeMetrics(t *testing.T) {
	req := require.New(t)

	m, err := ComputeMetrics([]int{0, 0, 1, 1, 1}, []int{0, 1, 1, 1, 0})
	req.NoError(err)

	req.Equal(ConfusionMatrix{{1, 1}, {1, 2}}, m.Confusion)
	req.Equal(5, m.Confusion.Total())
	req.InDelta(0.6, m.Accuracy, 1e-12)
	req.InDelta(2.0/3.0, m.Precision, 1e-12)
	req.InDelta(2.0/3.0, m.Recall, 1e-12)
	req.InDelta(2.0/3.0, m.F1, 1e-12)
}

func TestComputeMetrics_ZeroDivision(t *testing.T) {
	req := require.New(t)

	m, err := ComputeMetrics([]int{0, 1, 0}, []int{0, 0, 0})
	req.NoError(err)
	req.Equal(0.0, m.Precision)
	req.Equal(0.0, m.Recall)
	req.Equal(0.0, m.F1)
	req.InDelta(2.0/3.0, m.Accuracy, 1e-12)
}

func TestComputeMetrics_Errors(t *testing.T) {
	_, err := ComputeMetrics([]int{0}, []int{0, 1})
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = ComputeMetrics(nil, nil)
	require.ErrorIs(t, err, ErrNoSamples)

	_, err = ComputeMetrics([]int{3}, []int{1})
	require.ErrorIs(t, err, ErrInvalidLabel)
}

func TestEvaluate_ConfusionSumsToTestSize(t *testing.T) {
	req := require.New(t)

	X, y := toyData(25)
	p, err := Split(X, y, 0.2, 42)
	req.NoError(err)

	model, _, err := Fit(p.XTrain, p.YTrain, DefaultOptions())
	req.NoError(err)

	m, err := Evaluate(model, p.XTest, p.YTest)
	req.NoError(err)
	req.Equal(len(p.YTest), m.Confusion.Total())
}
