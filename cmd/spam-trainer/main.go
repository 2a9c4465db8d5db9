package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/di"
	"github.com/mikey/spam-model-trainer/internal/metrics"
	"github.com/mikey/spam-model-trainer/internal/ports"
)

func main() {
	_ = godotenv.Load()

	flags, err := di.ParseTrainerFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildTrainerContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	service *core.TrainingService,
	repo core.ArtifactRepository,
	reporter ports.Reporter,
	exporter *metrics.TrainingExporter,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if closer, ok := repo.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	result, err := service.Train(ctx)
	if err != nil {
		logger.Error("Training failed", zap.Error(err))
		return err
	}

	if err := reporter.ReportTraining(result); err != nil {
		return err
	}

	if path := cfg.GetString("metrics.textfile"); path != "" {
		exporter.Observe(result)
		if err := exporter.WriteTextfile(path); err != nil {
			return err
		}
		logger.Info("Wrote run metrics", zap.String("file", path))
	}

	logger.Info("Training complete",
		zap.String("run_id", result.RunID),
		zap.Duration("duration", result.Duration))
	return nil
}
