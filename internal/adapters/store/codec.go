// Package store persists trained artifacts. Every backend stores the model
// and the vectorizer as two gob streams, each opened by a header naming
// the artifact format and its schema version.
package store

import (
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/mikey/spam-model-trainer/internal/classifier"
	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/vectorizer"
)

const (
	ModelFormat      = "spam-model-trainer/model"
	VectorizerFormat = "spam-model-trainer/vectorizer"
	SchemaVersion    = 1
)

const (
	kindModel      = "model"
	kindVectorizer = "vectorizer"
)

type header struct {
	Format  string
	Version int
}

type modelPayload struct {
	Name      string
	RunID     string
	CreatedAt time.Time
	Weights   []float64
	Bias      float64
	Fit       classifier.FitResult
	Metrics   classifier.Metrics
}

type vectorizerPayload struct {
	RunID       string
	Terms       []string
	MaxFeatures int
}

func encodeModel(w io.Writer, a *core.Artifacts) error {
	if a.Model == nil {
		return fmt.Errorf("model artifact: no model")
	}
	enc := gob.NewEncoder(w)
	if err := enc.Encode(header{Format: ModelFormat, Version: SchemaVersion}); err != nil {
		return fmt.Errorf("failed to encode model header: %w", err)
	}
	p := modelPayload{
		Name:      a.Name,
		RunID:     a.RunID,
		CreatedAt: a.CreatedAt,
		Weights:   a.Model.Weights,
		Bias:      a.Model.Bias,
		Fit:       a.Fit,
		Metrics:   a.Metrics,
	}
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	return nil
}

func encodeVectorizer(w io.Writer, a *core.Artifacts) error {
	if a.Vectorizer == nil {
		return fmt.Errorf("vectorizer artifact: no vectorizer")
	}
	enc := gob.NewEncoder(w)
	if err := enc.Encode(header{Format: VectorizerFormat, Version: SchemaVersion}); err != nil {
		return fmt.Errorf("failed to encode vectorizer header: %w", err)
	}
	p := vectorizerPayload{
		RunID:       a.RunID,
		Terms:       a.Vectorizer.Terms(),
		MaxFeatures: a.Vectorizer.MaxFeatures,
	}
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode vectorizer artifact: %w", err)
	}
	return nil
}

func readHeader(dec *gob.Decoder, kind, format string) error {
	var h header
	if err := dec.Decode(&h); err != nil {
		return fmt.Errorf("%w: %s artifact: %v", core.ErrUnsupportedArtifact, kind, err)
	}
	if h.Format != format {
		return fmt.Errorf("%w: %s artifact has format %q, want %q", core.ErrUnsupportedArtifact, kind, h.Format, format)
	}
	if h.Version != SchemaVersion {
		return fmt.Errorf("%w: %s artifact has version %d, want %d", core.ErrUnsupportedArtifact, kind, h.Version, SchemaVersion)
	}
	return nil
}

func decodeModel(r io.Reader) (*modelPayload, error) {
	dec := gob.NewDecoder(r)
	if err := readHeader(dec, kindModel, ModelFormat); err != nil {
		return nil, err
	}
	var p modelPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	return &p, nil
}

func decodeVectorizer(r io.Reader) (*vectorizerPayload, error) {
	dec := gob.NewDecoder(r)
	if err := readHeader(dec, kindVectorizer, VectorizerFormat); err != nil {
		return nil, err
	}
	var p vectorizerPayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode vectorizer artifact: %w", err)
	}
	return &p, nil
}

// assemble rebuilds artifacts from both payloads and checks that they were
// produced by the same run.
func assemble(m *modelPayload, v *vectorizerPayload) (*core.Artifacts, error) {
	if m.RunID != v.RunID {
		return nil, fmt.Errorf("%w: model run %s, vectorizer run %s", core.ErrArtifactMismatch, m.RunID, v.RunID)
	}
	if len(m.Weights) != len(v.Terms) {
		return nil, fmt.Errorf("%w: model has %d weights, vocabulary has %d terms",
			core.ErrArtifactMismatch, len(m.Weights), len(v.Terms))
	}
	vec, err := vectorizer.Restore(v.Terms, v.MaxFeatures)
	if err != nil {
		return nil, fmt.Errorf("failed to restore vectorizer artifact: %w", err)
	}
	return &core.Artifacts{
		Name:       m.Name,
		RunID:      m.RunID,
		CreatedAt:  m.CreatedAt,
		Model:      &classifier.Model{Weights: m.Weights, Bias: m.Bias},
		Fit:        m.Fit,
		Vectorizer: vec,
		Metrics:    m.Metrics,
	}, nil
}
