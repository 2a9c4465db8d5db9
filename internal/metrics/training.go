// Package metrics exports the outcome of a training run in the Prometheus
// text format, for node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mikey/spam-model-trainer/internal/core"
)

const namespace = "spam_trainer"

// TrainingExporter holds gauges describing the latest training run
type TrainingExporter struct {
	reg *prometheus.Registry

	scores         *prometheus.GaugeVec
	vocabularySize prometheus.Gauge
	samples        *prometheus.GaugeVec
	iterations     prometheus.Gauge
	converged      prometheus.Gauge
	confusion      *prometheus.GaugeVec
	lastRun        prometheus.Gauge
}

// NewTrainingExporter creates an exporter with its own registry
func NewTrainingExporter() *TrainingExporter {
	e := &TrainingExporter{
		reg: prometheus.NewRegistry(),

		scores: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Evaluation score on the held-out test set",
		}, []string{"metric"}),

		vocabularySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_size",
			Help:      "Number of terms in the fitted vocabulary",
		}),

		samples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "samples",
			Help:      "Number of samples per split",
		}, []string{"split"}),

		iterations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "iterations",
			Help:      "Optimizer iterations used by the last fit",
		}),

		converged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "converged",
			Help:      "1 if the last fit met the tolerance",
		}),

		confusion: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "confusion",
			Help:      "Confusion matrix cell counts on the test set",
		}, []string{"actual", "predicted"}),

		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last training run started",
		}),
	}

	e.reg.MustRegister(
		e.scores, e.vocabularySize, e.samples,
		e.iterations, e.converged, e.confusion, e.lastRun,
	)
	return e
}

// Registry exposes the exporter's registry
func (e *TrainingExporter) Registry() *prometheus.Registry {
	return e.reg
}

// Observe records a training result
func (e *TrainingExporter) Observe(res *core.TrainingResult) {
	m := res.Metrics
	e.scores.WithLabelValues("accuracy").Set(m.Accuracy)
	e.scores.WithLabelValues("precision").Set(m.Precision)
	e.scores.WithLabelValues("recall").Set(m.Recall)
	e.scores.WithLabelValues("f1").Set(m.F1)

	e.vocabularySize.Set(float64(res.VocabularySize))
	e.samples.WithLabelValues("train").Set(float64(res.TrainSize))
	e.samples.WithLabelValues("test").Set(float64(res.TestSize))
	e.iterations.Set(float64(res.Fit.Iterations))
	if res.Fit.Converged {
		e.converged.Set(1)
	} else {
		e.converged.Set(0)
	}

	labels := [2]string{core.Ham.String(), core.Spam.String()}
	for actual := range 2 {
		for predicted := range 2 {
			e.confusion.WithLabelValues(labels[actual], labels[predicted]).Set(float64(m.Confusion[actual][predicted]))
		}
	}

	if res.Artifacts != nil {
		e.lastRun.Set(float64(res.Artifacts.CreatedAt.Unix()))
	}
}

// WriteTextfile atomically writes all gauges to path
func (e *TrainingExporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
