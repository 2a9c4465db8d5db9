package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/adapters/dataset"
	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
)

// DatasetFactory creates dataset loaders
type DatasetFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDatasetFactory creates a new dataset factory
func NewDatasetFactory(cfg *config.Config, logger *zap.Logger) *DatasetFactory {
	return &DatasetFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDatasetLoader creates a CSV loader from the dataset configuration
func (f *DatasetFactory) CreateDatasetLoader() (core.DatasetLoader, error) {
	d := f.cfg.GetDataset()
	return dataset.NewCSVLoader(dataset.Options{
		LabelColumn:   d.LabelColumn,
		TextColumn:    d.TextColumn,
		Encoding:      d.Encoding,
		UnknownLabels: dataset.UnknownLabelPolicy(d.UnknownLabels),
	}, f.logger)
}
