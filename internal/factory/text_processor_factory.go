package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/textproc"
	"github.com/mikey/spam-model-trainer/internal/utils"
)

// TextProcessorFactory creates text normalizers and body processors
type TextProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(cfg *config.Config, logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNormalizer returns the default normalizer, or one extended with the
// terms of text.stopwords_file when it is set
func (f *TextProcessorFactory) CreateNormalizer() (core.TextNormalizer, error) {
	path := f.cfg.GetText().StopwordsFile
	if path == "" {
		return textproc.Default(), nil
	}

	extra, err := textproc.LoadStoplist(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load stopwords: %w", err)
	}
	n := textproc.NewNormalizer(append(append([]string(nil), textproc.EnglishStopwords...), extra...))
	f.logger.Info("Loaded extra stopwords",
		zap.String("file", path),
		zap.Int("extra", len(extra)),
		zap.Int("total", n.StopwordCount()))
	return n, nil
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}
