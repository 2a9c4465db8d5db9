package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/di"
	"github.com/mikey/spam-model-trainer/internal/ports"
)

func main() {
	_ = godotenv.Load()

	flags, err := di.ParseDetectorFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	container, err := di.BuildDetectorContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}
}

func run(
	logger *zap.Logger,
	flags *di.DetectorFlags,
	emailFilter ports.EmailFilter,
	repo core.ArtifactRepository,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if closer, ok := repo.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	if err := emailFilter.Start(); err != nil {
		return err
	}
	defer emailFilter.Stop()

	if flags.Text != "" {
		_, err := emailFilter.ProcessText(ctx, flags.Text)
		return err
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	_, err := emailFilter.ProcessReader(ctx, emailReader)
	return err
}
