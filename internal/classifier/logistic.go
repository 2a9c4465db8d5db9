// Package classifier fits and evaluates a binary logistic-regression model
// over sparse count vectors.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/mikey/spam-model-trainer/internal/vectorizer"
)

var (
	ErrNoSamples         = errors.New("no training samples")
	ErrLengthMismatch    = errors.New("feature rows and labels differ in length")
	ErrDimensionMismatch = errors.New("feature vectors differ in dimension")
	ErrInvalidLabel      = errors.New("label must be 0 or 1")
	ErrSingleClass       = errors.New("training data contains a single class")
	ErrSplitTooSmall     = errors.New("dataset too small to split")
	ErrUnknownSolver     = errors.New("unknown solver")
)

// Solver selects the optimization strategy.
type Solver string

const (
	// SolverGD is full-batch gradient descent.
	SolverGD Solver = "gd"
	// SolverSGD is mini-batch stochastic gradient descent with a seeded
	// per-epoch shuffle.
	SolverSGD Solver = "sgd"
)

// Options configures Fit. The objective is ½‖w‖² + C·Σ logloss, scaled by
// 1/n; the intercept is not penalized.
type Options struct {
	Solver       Solver
	MaxIter      int
	LearningRate float64
	C            float64
	Tolerance    float64
	BatchSize    int
	Seed         int64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Solver:       SolverGD,
		MaxIter:      1000,
		LearningRate: 0.1,
		C:            1.0,
		Tolerance:    1e-4,
		BatchSize:    32,
		Seed:         42,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Solver == "" {
		o.Solver = d.Solver
	}
	if o.MaxIter <= 0 {
		o.MaxIter = d.MaxIter
	}
	if o.LearningRate <= 0 {
		o.LearningRate = d.LearningRate
	}
	if o.C <= 0 {
		o.C = d.C
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	return o
}

// Model is a fitted logistic-regression classifier.
type Model struct {
	Weights []float64
	Bias    float64
}

// FitResult describes how the optimization ended.
type FitResult struct {
	Iterations int
	Converged  bool
	Loss       float64
	// GradNorm is the largest absolute component of the full gradient.
	GradNorm float64
}

// Fit trains a model on X and y. Reaching MaxIter without meeting the
// tolerance is not an error: the model is returned with Converged=false.
func Fit(X []vectorizer.Vector, y []int, opts Options) (*Model, FitResult, error) {
	opts = opts.withDefaults()
	if opts.Solver != SolverGD && opts.Solver != SolverSGD {
		return nil, FitResult{}, fmt.Errorf("%w: %q", ErrUnknownSolver, opts.Solver)
	}

	dim, err := validate(X, y)
	if err != nil {
		return nil, FitResult{}, err
	}

	p := &problem{X: X, y: y, dim: dim, reg: 1 / (opts.C * float64(len(X)))}
	w := make([]float64, dim)
	b := 0.0
	grad := make([]float64, dim)

	all := make([]int, len(X))
	for i := range all {
		all[i] = i
	}
	order := append([]int(nil), all...)
	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)))

	var res FitResult
	for iter := 0; iter < opts.MaxIter; iter++ {
		loss, gb := p.evaluate(all, w, b, grad)
		res.Loss, res.GradNorm = loss, maxAbs(grad, gb)
		if res.GradNorm <= opts.Tolerance {
			res.Converged = true
			break
		}

		switch opts.Solver {
		case SolverGD:
			b = step(w, b, grad, gb, opts.LearningRate)
		case SolverSGD:
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
			for start := 0; start < len(order); start += opts.BatchSize {
				end := min(start+opts.BatchSize, len(order))
				_, bgb := p.evaluate(order[start:end], w, b, grad)
				b = step(w, b, grad, bgb, opts.LearningRate)
			}
		}
		res.Iterations = iter + 1
	}

	if !res.Converged {
		loss, gb := p.evaluate(all, w, b, grad)
		res.Loss, res.GradNorm = loss, maxAbs(grad, gb)
		res.Converged = res.GradNorm <= opts.Tolerance
	}

	return &Model{Weights: w, Bias: b}, res, nil
}

func validate(X []vectorizer.Vector, y []int) (int, error) {
	if len(X) == 0 {
		return 0, ErrNoSamples
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrLengthMismatch, len(X), len(y))
	}

	dim := X[0].Dim
	var seen [2]bool
	for i := range X {
		if X[i].Dim != dim {
			return 0, fmt.Errorf("%w: row %d has %d, want %d", ErrDimensionMismatch, i, X[i].Dim, dim)
		}
		if y[i] != 0 && y[i] != 1 {
			return 0, fmt.Errorf("%w: row %d has %d", ErrInvalidLabel, i, y[i])
		}
		seen[y[i]] = true
	}
	if !seen[0] || !seen[1] {
		return 0, ErrSingleClass
	}
	return dim, nil
}

type problem struct {
	X   []vectorizer.Vector
	y   []int
	dim int
	reg float64
}

// evaluate returns the penalized mean log-loss over rows, writes the weight
// gradient into grad and returns the bias gradient.
func (p *problem) evaluate(rows []int, w []float64, b float64, grad []float64) (float64, float64) {
	clear(grad)

	var loss, gb float64
	for _, r := range rows {
		x := p.X[r]
		z := x.Dot(w) + b
		diff := sigmoid(z) - float64(p.y[r])
		loss += softplus(z) - float64(p.y[r])*z
		for k, idx := range x.Indices {
			grad[idx] += diff * x.Values[k]
		}
		gb += diff
	}

	m := float64(len(rows))
	var sq float64
	for i := range grad {
		grad[i] = grad[i]/m + p.reg*w[i]
		sq += w[i] * w[i]
	}
	return loss/m + 0.5*p.reg*sq, gb / m
}

func step(w []float64, b float64, grad []float64, gb, lr float64) float64 {
	for i := range w {
		w[i] -= lr * grad[i]
	}
	return b - lr*gb
}

func maxAbs(grad []float64, gb float64) float64 {
	m := math.Abs(gb)
	for _, g := range grad {
		if a := math.Abs(g); a > m {
			m = a
		}
	}
	return m
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1+e^z) without overflow.
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}

// NumFeatures returns the input dimension the model expects.
func (m *Model) NumFeatures() int {
	return len(m.Weights)
}

// Decision returns the signed distance w·x + b.
func (m *Model) Decision(x vectorizer.Vector) float64 {
	return x.Dot(m.Weights) + m.Bias
}

// Probability returns P(spam | x).
func (m *Model) Probability(x vectorizer.Vector) float64 {
	return sigmoid(m.Decision(x))
}

// Predict returns 1 when the decision is positive, 0 otherwise. This is
// Probability(x) > 0.5.
func (m *Model) Predict(x vectorizer.Vector) int {
	if m.Decision(x) > 0 {
		return 1
	}
	return 0
}

// PredictAll predicts every row of X.
func (m *Model) PredictAll(X []vectorizer.Vector) []int {
	out := make([]int, len(X))
	for i, x := range X {
		out[i] = m.Predict(x)
	}
	return out
}

// Contribution is the share of one feature in a decision.
type Contribution struct {
	Index int
	Value float64
}

// Contributions returns weight·count for each non-zero feature of x, ordered
// by absolute value, largest first. Negative values pull towards ham.
func (m *Model) Contributions(x vectorizer.Vector) []Contribution {
	out := make([]Contribution, 0, x.Nnz())
	for k, idx := range x.Indices {
		if idx < len(m.Weights) {
			out = append(out, Contribution{Index: idx, Value: m.Weights[idx] * x.Values[k]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Value) > math.Abs(out[j].Value)
	})
	return out
}
