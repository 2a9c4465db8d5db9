package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/core"
)

type encodedRun struct {
	model      []byte
	vectorizer []byte
}

// MemoryStore keeps encoded artifacts in process memory
type MemoryStore struct {
	runs   []encodedRun
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory artifact store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{logger: logger}
}

// Save encodes both artifacts and appends them as the newest run
func (s *MemoryStore) Save(ctx context.Context, a *core.Artifacts) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var model, vec bytes.Buffer
	if err := encodeModel(&model, a); err != nil {
		return err
	}
	if err := encodeVectorizer(&vec, a); err != nil {
		return err
	}

	s.mu.Lock()
	s.runs = append(s.runs, encodedRun{model: model.Bytes(), vectorizer: vec.Bytes()})
	s.mu.Unlock()

	s.logger.Debug("Stored artifacts in memory",
		zap.String("run_id", a.RunID),
		zap.Int("model_bytes", model.Len()),
		zap.Int("vectorizer_bytes", vec.Len()))
	return nil
}

// Load decodes the newest run
func (s *MemoryStore) Load(ctx context.Context) (*core.Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return nil, fmt.Errorf("%w: memory store is empty", core.ErrArtifactNotFound)
	}
	run := s.runs[len(s.runs)-1]

	m, err := decodeModel(bytes.NewReader(run.model))
	if err != nil {
		return nil, err
	}
	v, err := decodeVectorizer(bytes.NewReader(run.vectorizer))
	if err != nil {
		return nil, err
	}
	return assemble(m, v)
}

// Len returns the number of stored runs
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
