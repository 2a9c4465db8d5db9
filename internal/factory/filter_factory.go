package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/adapters/filter"
	"github.com/mikey/spam-model-trainer/internal/config"
	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/ports"
	"github.com/mikey/spam-model-trainer/internal/utils"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *core.ClassifierService
	reporter ports.Reporter
	text     *utils.TextProcessor
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.ClassifierService,
	reporter ports.Reporter,
	text *utils.TextProcessor,
) *FilterFactory {
	return &FilterFactory{
		cfg:      cfg,
		logger:   logger,
		service:  service,
		reporter: reporter,
		text:     text,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	filterType := f.cfg.GetString("detector.filter_type")

	switch filterType {
	case "", "cli":
		return filter.NewCliFilter(
			f.service,
			f.reporter,
			f.text,
			f.logger,
			f.cfg.GetInt("detector.max_body_size"),
		)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterType)
	}
}
