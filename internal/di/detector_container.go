package di

import (
	"flag"
	"io"
	"os"

	"github.com/gookit/color"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/adapters/report"
	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/factory"
	"github.com/mikey/spam-model-trainer/internal/logging"
	"github.com/mikey/spam-model-trainer/internal/ports"
	"github.com/mikey/spam-model-trainer/internal/utils"
)

// DetectorFlags contains all command line flags for the detector CLI
type DetectorFlags struct {
	ConfigFile     string
	InputFile      string
	Text           string
	Threshold      float64
	Whitelist      string
	Store          string
	ModelPath      string
	VectorizerPath string
	Verbose        bool
	JSONLog        bool

	fs *flag.FlagSet
}

// ParseDetectorFlags parses the detector CLI arguments
func ParseDetectorFlags(args []string, output io.Writer) (*DetectorFlags, error) {
	flags := &DetectorFlags{}
	fs := newFlagSet("spam-detector", output)

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	fs.StringVar(&flags.Text, "text", "", "Classify this text instead of reading an email")
	fs.Float64Var(&flags.Threshold, "threshold", 0.5, "Threshold for spam detection")
	fs.StringVar(&flags.Whitelist, "whitelist", "", "Comma-separated list of whitelisted domains")
	fs.StringVar(&flags.Store, "store", "file", "Artifact store (file, sqlite, mysql)")
	fs.StringVar(&flags.ModelPath, "model", "model.gob", "Model artifact path for the file store")
	fs.StringVar(&flags.VectorizerPath, "vectorizer", "vectorizer.gob", "Vectorizer artifact path for the file store")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.fs = fs
	return flags, nil
}

func (f *DetectorFlags) overrides() []override {
	return []override{
		{flag: "threshold", key: "spam.threshold", value: func() any { return f.Threshold }},
		{flag: "whitelist", key: "spam.whitelisted_domains", value: func() any { return splitList(f.Whitelist) }},
		{flag: "store", key: "artifacts.store", value: func() any { return f.Store }},
		{flag: "model", key: "artifacts.model_path", value: func() any { return f.ModelPath }},
		{flag: "vectorizer", key: "artifacts.vectorizer_path", value: func() any { return f.VectorizerPath }},
	}
}

// BuildDetectorContainer creates and configures a dependency injection container for the detector CLI
func BuildDetectorContainer(flags *DetectorFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *DetectorFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *DetectorFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *DetectorFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		if flags.fs != nil {
			applyOverrides(flags.fs, cfg, flags.overrides())
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}

	if err := container.Provide(func(f *factory.StoreFactory) (core.ArtifactRepository, error) {
		return f.CreateArtifactRepository()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) (core.TextNormalizer, error) {
		return f.CreateNormalizer()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier service
	if err := container.Provide(func(
		repo core.ArtifactRepository,
		normalizer core.TextNormalizer,
		logger *zap.Logger,
		cfg *config.Config,
	) *core.ClassifierService {
		spam := cfg.GetSpam()
		if len(spam.WhitelistedDomains) > 0 {
			logger.Info("Using whitelisted domains", zap.Strings("domains", spam.WhitelistedDomains))
		}
		return core.NewClassifierService(repo, normalizer, logger, spam.Threshold, spam.WhitelistedDomains, spam.TopTokens)
	}); err != nil {
		return nil, err
	}

	// Register reporter
	if err := container.Provide(func() ports.Reporter {
		return report.NewConsoleReporter(os.Stdout, color.SupportColor())
	}); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
