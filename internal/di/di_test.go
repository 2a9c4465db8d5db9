package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/ports"
)

func writeDataset(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("v1,v2,,,\n")
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "spam,Free prize! Claim cash now %d,,,\n", i)
		} else {
			fmt.Fprintf(&b, "ham,See you at lunch tomorrow %d,,,\n", i)
		}
	}
	path := filepath.Join(t.TempDir(), "spam.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestParseTrainerFlags_OnlySetFlagsOverride(t *testing.T) {
	req := require.New(t)

	flags, err := ParseTrainerFlags([]string{"-max-features", "50", "-solver", "sgd", "-verbose"}, io.Discard)
	req.NoError(err)

	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("split.seed", 7)
	applyOverrides(flags.fs, cfg, flags.overrides())
	applyLogFlags(cfg, flags.Verbose, flags.JSONLog)

	m := cfg.GetModel()
	req.Equal(50, m.MaxFeatures)
	req.Equal("sgd", m.Solver)
	req.Equal(int64(7), m.Seed, "unset flag must not clobber configuration")
	req.Equal("debug", cfg.GetString("logging.level"))
	req.Equal("console", cfg.GetString("logging.format"))
}

func TestParseTrainerFlags_Invalid(t *testing.T) {
	_, err := ParseTrainerFlags([]string{"-max-features", "lots"}, io.Discard)
	require.Error(t, err)
}

func TestBuildTrainerContainer_Train(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	flags, err := ParseTrainerFlags([]string{
		"-data", writeDataset(t),
		"-model-out", filepath.Join(dir, "model.gob"),
		"-vectorizer-out", filepath.Join(dir, "vectorizer.gob"),
		"-test-size", "0.25",
	}, io.Discard)
	req.NoError(err)

	container, err := BuildTrainerContainer(flags)
	req.NoError(err)

	var res *core.TrainingResult
	err = container.Invoke(func(svc *core.TrainingService) error {
		var err error
		res, err = svc.Train(context.Background())
		return err
	})
	req.NoError(err)
	req.Equal(40, res.Records)
	req.Equal(10, res.TestSize)

	req.FileExists(filepath.Join(dir, "model.gob"))
	req.FileExists(filepath.Join(dir, "vectorizer.gob"))
}

func TestBuildDetectorContainer_Whitelist(t *testing.T) {
	req := require.New(t)

	flags, err := ParseDetectorFlags([]string{"-whitelist", "a.example, b.example", "-threshold", "0.8"}, io.Discard)
	req.NoError(err)

	container, err := BuildDetectorContainer(flags)
	req.NoError(err)

	err = container.Invoke(func(cfg *config.Config, filter ports.EmailFilter) {
		req.Equal([]string{"a.example", "b.example"}, cfg.GetSpam().WhitelistedDomains)
		req.Equal(0.8, cfg.GetSpam().Threshold)
		req.NotNil(filter)
	})
	req.NoError(err)
}
