package core

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/classifier"
	"github.com/mikey/spam-model-trainer/internal/vectorizer"
)

var validate = validator.New()

// TrainingOptions holds the knobs of one training run
type TrainingOptions struct {
	DatasetPath  string  `validate:"required"`
	Name         string  `validate:"required,max=255"`
	MaxFeatures  int     `validate:"gt=0"`
	TestFraction float64 `validate:"gt=0,lt=1"`
	Seed         int64
	Solver       string  `validate:"oneof=gd sgd"`
	MaxIter      int     `validate:"gt=0"`
	LearningRate float64 `validate:"gt=0"`
	C            float64 `validate:"gt=0"`
	Tolerance    float64 `validate:"gt=0"`
	BatchSize    int     `validate:"gt=0"`
}

// Validate checks the options before any work is done.
func (o TrainingOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid training options: %w", err)
	}
	return nil
}

func (o TrainingOptions) classifierOptions() classifier.Options {
	return classifier.Options{
		Solver:       classifier.Solver(o.Solver),
		MaxIter:      o.MaxIter,
		LearningRate: o.LearningRate,
		C:            o.C,
		Tolerance:    o.Tolerance,
		BatchSize:    o.BatchSize,
		Seed:         o.Seed,
	}
}

// TrainingService runs the load, normalize, vectorize, train and persist stages
type TrainingService struct {
	loader     DatasetLoader
	normalizer TextNormalizer
	repo       ArtifactRepository
	opts       TrainingOptions
	logger     *zap.Logger
	now        func() time.Time
}

// NewTrainingService creates a new training service
func NewTrainingService(
	loader DatasetLoader,
	normalizer TextNormalizer,
	repo ArtifactRepository,
	opts TrainingOptions,
	logger *zap.Logger,
) *TrainingService {
	return &TrainingService{
		loader:     loader,
		normalizer: normalizer,
		repo:       repo,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Train runs the whole pipeline once and persists the resulting artifacts.
func (s *TrainingService) Train(ctx context.Context) (*TrainingResult, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	start := s.now()
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	logger.Info("Loading dataset", zap.String("path", s.opts.DatasetPath))
	ds, err := s.loader.Load(ctx, s.opts.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	if len(ds.Records) == 0 {
		return nil, ErrEmptyDataset
	}
	if ds.Dropped > 0 {
		logger.Warn("Dropped rows with unknown labels", zap.Int("dropped", ds.Dropped))
	}
	logger.Info("Loaded dataset", zap.Int("records", len(ds.Records)))

	docs := make([]string, len(ds.Records))
	for i, text := range ds.Texts() {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		docs[i] = s.normalizer.Normalize(text)
	}
	logger.Info("Normalized messages", zap.Int("documents", len(docs)))

	vec := vectorizer.NewCountVectorizer(s.opts.MaxFeatures)
	X, err := vec.FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to build vocabulary: %w", err)
	}
	logger.Info("Built feature matrix",
		zap.Int("vocabulary_size", vec.Size()),
		zap.Int("max_features", s.opts.MaxFeatures))

	part, err := classifier.Split(X, ds.Labels(), s.opts.TestFraction, s.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}
	logger.Info("Split dataset",
		zap.Int("train", len(part.YTrain)),
		zap.Int("test", len(part.YTest)),
		zap.Int64("seed", s.opts.Seed))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model, fit, err := classifier.Fit(part.XTrain, part.YTrain, s.opts.classifierOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	if !fit.Converged {
		logger.Warn("Classifier did not converge",
			zap.Int("iterations", fit.Iterations),
			zap.Float64("grad_norm", fit.GradNorm),
			zap.Float64("tolerance", s.opts.Tolerance))
	} else {
		logger.Info("Classifier converged", zap.Int("iterations", fit.Iterations))
	}

	metrics, err := classifier.Evaluate(model, part.XTest, part.YTest)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate classifier: %w", err)
	}
	logger.Info("Evaluated classifier",
		zap.Float64("accuracy", metrics.Accuracy),
		zap.Float64("precision", metrics.Precision),
		zap.Float64("recall", metrics.Recall),
		zap.Float64("f1", metrics.F1))

	artifacts := &Artifacts{
		Name:       s.opts.Name,
		RunID:      runID,
		CreatedAt:  start.UTC(),
		Model:      model,
		Fit:        fit,
		Vectorizer: vec,
		Metrics:    metrics,
	}
	if err := s.repo.Save(ctx, artifacts); err != nil {
		return nil, fmt.Errorf("failed to persist artifacts: %w", err)
	}
	logger.Info("Saved artifacts", zap.String("name", s.opts.Name))

	return &TrainingResult{
		RunID:          runID,
		Records:        len(ds.Records),
		Dropped:        ds.Dropped,
		TrainSize:      len(part.YTrain),
		TestSize:       len(part.YTest),
		VocabularySize: vec.Size(),
		Fit:            fit,
		Metrics:        metrics,
		Duration:       s.now().Sub(start),
		Artifacts:      artifacts,
	}, nil
}
