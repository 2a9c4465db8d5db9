package classifier

import (
	"fmt"

	"github.com/mikey/spam-model-trainer/internal/vectorizer"
)

// ConfusionMatrix is indexed [actual][predicted]: [[TN, FP], [FN, TP]].
type ConfusionMatrix [2][2]int

func (c ConfusionMatrix) TN() int { return c[0][0] }
func (c ConfusionMatrix) FP() int { return c[0][1] }
func (c ConfusionMatrix) FN() int { return c[1][0] }
func (c ConfusionMatrix) TP() int { return c[1][1] }

// Total returns the number of evaluated samples.
func (c ConfusionMatrix) Total() int {
	return c[0][0] + c[0][1] + c[1][0] + c[1][1]
}

// Metrics holds binary classification scores with spam (1) as the positive class.
// Scores whose denominator is zero are reported as 0.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	Confusion ConfusionMatrix
}

// ComputeMetrics scores predictions against ground truth.
func ComputeMetrics(yTrue, yPred []int) (Metrics, error) {
	if len(yTrue) != len(yPred) {
		return Metrics{}, fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Metrics{}, ErrNoSamples
	}

	var cm ConfusionMatrix
	for i := range yTrue {
		a, p := yTrue[i], yPred[i]
		if (a != 0 && a != 1) || (p != 0 && p != 1) {
			return Metrics{}, fmt.Errorf("%w: sample %d has label %d, prediction %d", ErrInvalidLabel, i, a, p)
		}
		cm[a][p]++
	}

	m := Metrics{
		Accuracy:  ratio(cm.TP()+cm.TN(), cm.Total()),
		Precision: ratio(cm.TP(), cm.TP()+cm.FP()),
		Recall:    ratio(cm.TP(), cm.TP()+cm.FN()),
		Confusion: cm,
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m, nil
}

// Evaluate predicts X with model and scores the result against y.
func Evaluate(model *Model, X []vectorizer.Vector, y []int) (Metrics, error) {
	return ComputeMetrics(y, model.PredictAll(X))
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
