package di

import (
	"flag"
	"io"
	"os"

	"github.com/gookit/color"
	"go.uber.org/dig"

	"github.com/mikey/spam-model-trainer/internal/adapters/report"
	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/factory"
	"github.com/mikey/spam-model-trainer/internal/logging"
	"github.com/mikey/spam-model-trainer/internal/metrics"
	"github.com/mikey/spam-model-trainer/internal/ports"
)

// TrainerFlags contains all command line flags for the training CLI
type TrainerFlags struct {
	ConfigFile    string
	DataPath      string
	Encoding      string
	MaxFeatures   int
	TestSize      float64
	Seed          int64
	MaxIter       int
	Solver        string
	Store         string
	ModelOut      string
	VectorizerOut string
	MetricsFile   string
	Verbose       bool
	JSONLog       bool

	fs *flag.FlagSet
}

// ParseTrainerFlags parses the training CLI arguments. Flags left unset do
// not override the configuration.
func ParseTrainerFlags(args []string, output io.Writer) (*TrainerFlags, error) {
	flags := &TrainerFlags{}
	fs := newFlagSet("spam-trainer", output)

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&flags.DataPath, "data", "spam.csv", "Path to the labeled CSV dataset")
	fs.StringVar(&flags.Encoding, "encoding", "latin-1", "Character encoding of the dataset")
	fs.IntVar(&flags.MaxFeatures, "max-features", 3000, "Maximum vocabulary size")
	fs.Float64Var(&flags.TestSize, "test-size", 0.2, "Fraction of records held out for evaluation")
	fs.Int64Var(&flags.Seed, "seed", 42, "Seed for the train/test split and SGD shuffling")
	fs.IntVar(&flags.MaxIter, "max-iter", 1000, "Maximum optimizer iterations")
	fs.StringVar(&flags.Solver, "solver", "gd", "Optimizer (gd, sgd)")
	fs.StringVar(&flags.Store, "store", "file", "Artifact store (file, sqlite, mysql, memory)")
	fs.StringVar(&flags.ModelOut, "model-out", "model.gob", "Model artifact path for the file store")
	fs.StringVar(&flags.VectorizerOut, "vectorizer-out", "vectorizer.gob", "Vectorizer artifact path for the file store")
	fs.StringVar(&flags.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.fs = fs
	return flags, nil
}

func (f *TrainerFlags) overrides() []override {
	return []override{
		{flag: "data", key: "dataset.path", value: func() any { return f.DataPath }},
		{flag: "encoding", key: "dataset.encoding", value: func() any { return f.Encoding }},
		{flag: "max-features", key: "features.max_features", value: func() any { return f.MaxFeatures }},
		{flag: "test-size", key: "split.test_fraction", value: func() any { return f.TestSize }},
		{flag: "seed", key: "split.seed", value: func() any { return f.Seed }},
		{flag: "max-iter", key: "model.max_iter", value: func() any { return f.MaxIter }},
		{flag: "solver", key: "model.solver", value: func() any { return f.Solver }},
		{flag: "store", key: "artifacts.store", value: func() any { return f.Store }},
		{flag: "model-out", key: "artifacts.model_path", value: func() any { return f.ModelOut }},
		{flag: "vectorizer-out", key: "artifacts.vectorizer_path", value: func() any { return f.VectorizerOut }},
		{flag: "metrics-file", key: "metrics.textfile", value: func() any { return f.MetricsFile }},
	}
}

// trainingOptions builds the options of a training run from configuration
func trainingOptions(cfg *config.Config) core.TrainingOptions {
	m := cfg.GetModel()
	return core.TrainingOptions{
		DatasetPath:  cfg.GetDataset().Path,
		Name:         cfg.GetArtifacts().Name,
		MaxFeatures:  m.MaxFeatures,
		TestFraction: m.TestFraction,
		Seed:         m.Seed,
		Solver:       m.Solver,
		MaxIter:      m.MaxIter,
		LearningRate: m.LearningRate,
		C:            m.C,
		Tolerance:    m.Tolerance,
		BatchSize:    m.BatchSize,
	}
}

// BuildTrainerContainer creates and configures a dependency injection container for the training CLI
func BuildTrainerContainer(flags *TrainerFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *TrainerFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration, with explicitly set flags taking precedence
	if err := container.Provide(func(flags *TrainerFlags) (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if flags.fs != nil {
			applyOverrides(flags.fs, cfg, flags.overrides())
		}
		applyLogFlags(cfg, flags.Verbose, flags.JSONLog)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewDatasetFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	if err := container.Provide(func(f *factory.StoreFactory) (core.ArtifactRepository, error) {
		return f.CreateArtifactRepository()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DatasetFactory) (core.DatasetLoader, error) {
		return f.CreateDatasetLoader()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) (core.TextNormalizer, error) {
		return f.CreateNormalizer()
	}); err != nil {
		return nil, err
	}

	// Register training options and service
	if err := container.Provide(trainingOptions); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewTrainingService); err != nil {
		return nil, err
	}

	// Register reporter and metrics exporter
	if err := container.Provide(func() ports.Reporter {
		return report.NewConsoleReporter(os.Stdout, color.SupportColor())
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(metrics.NewTrainingExporter); err != nil {
		return nil, err
	}

	return container, nil
}
