package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/adapters/store"
	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
)

// StoreFactory creates artifact repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateArtifactRepository creates an artifact repository based on the configuration
func (f *StoreFactory) CreateArtifactRepository() (core.ArtifactRepository, error) {
	a := f.cfg.GetArtifacts()

	switch a.Store {
	case "file":
		return store.NewFileStore(a.ModelPath, a.VectorizerPath, f.logger), nil
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(a.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(a.SQLitePath, a.Name, f.logger)
	case "mysql":
		return store.NewMySQLStore(a.MySQLDSN, a.Name, f.logger)
	default:
		return nil, fmt.Errorf("unsupported artifact store: %s", a.Store)
	}
}
