package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/core"
)

// FileStore writes the model and the vectorizer to two files
type FileStore struct {
	modelPath      string
	vectorizerPath string
	logger         *zap.Logger
}

// NewFileStore creates a new file-backed artifact store
func NewFileStore(modelPath, vectorizerPath string, logger *zap.Logger) *FileStore {
	return &FileStore{
		modelPath:      modelPath,
		vectorizerPath: vectorizerPath,
		logger:         logger,
	}
}

// Save writes both artifact files. Both are fully written to temporary files
// before either replaces its target, so a failed write keeps the previous
// pair intact.
func (s *FileStore) Save(ctx context.Context, a *core.Artifacts) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	modelTmp, err := writeTemp(s.modelPath, func(w io.Writer) error { return encodeModel(w, a) })
	if err != nil {
		return fmt.Errorf("failed to write model artifact %s: %w", s.modelPath, err)
	}
	vecTmp, err := writeTemp(s.vectorizerPath, func(w io.Writer) error { return encodeVectorizer(w, a) })
	if err != nil {
		os.Remove(modelTmp)
		return fmt.Errorf("failed to write vectorizer artifact %s: %w", s.vectorizerPath, err)
	}

	if err := os.Rename(vecTmp, s.vectorizerPath); err != nil {
		os.Remove(modelTmp)
		os.Remove(vecTmp)
		return fmt.Errorf("failed to replace vectorizer artifact %s: %w", s.vectorizerPath, err)
	}
	if err := os.Rename(modelTmp, s.modelPath); err != nil {
		os.Remove(modelTmp)
		return fmt.Errorf("failed to replace model artifact %s: %w", s.modelPath, err)
	}

	s.logger.Info("Wrote artifacts",
		zap.String("model", s.modelPath),
		zap.String("vectorizer", s.vectorizerPath))
	return nil
}

// Load reads both artifact files
func (s *FileStore) Load(ctx context.Context) (*core.Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var m *modelPayload
	err := readFile(s.modelPath, func(r io.Reader) error {
		var err error
		m, err = decodeModel(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", s.modelPath, err)
	}

	var v *vectorizerPayload
	err = readFile(s.vectorizerPath, func(r io.Reader) error {
		var err error
		v, err = decodeVectorizer(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer artifact %s: %w", s.vectorizerPath, err)
	}

	return assemble(m, v)
}

func readFile(path string, decode func(io.Reader) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", core.ErrArtifactNotFound, err)
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return decode(f)
}

// writeTemp writes to a temporary file next to path and returns its name.
// The caller renames it over path.
func writeTemp(path string, encode func(io.Writer) error) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return tmpName, nil
}
