package filter

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/core"
	"github.com/mikey/spam-model-trainer/internal/ports"
	"github.com/mikey/spam-model-trainer/internal/utils"
)

// CliFilter classifies messages given on the command line and reports the verdict
type CliFilter struct {
	service     *core.ClassifierService
	reporter    ports.Reporter
	text        *utils.TextProcessor
	logger      *zap.Logger
	maxBodySize int
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(
	service *core.ClassifierService,
	reporter ports.Reporter,
	text *utils.TextProcessor,
	logger *zap.Logger,
	maxBodySize int,
) (*CliFilter, error) {
	return &CliFilter{
		service:     service,
		reporter:    reporter,
		text:        text,
		logger:      logger,
		maxBodySize: maxBodySize,
	}, nil
}

// ProcessEmail analyzes an email and reports the result
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.SpamAnalysisResult, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.From))

	email.Subject = f.text.SanitizeUTF8(email.Subject)
	email.Body = f.text.ProcessText(email.Body, f.maxBodySize)

	startTime := time.Now()
	result, err := f.service.AnalyzeEmail(ctx, email)
	if err != nil {
		f.logger.Error("Failed to analyze email", zap.Error(err))
		return nil, err
	}
	f.logger.Debug("Analyzed email",
		zap.Bool("is_spam", result.IsSpam),
		zap.Float64("score", result.Score),
		zap.Duration("duration", time.Since(startTime)))

	if err := f.reporter.ReportAnalysis(email, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessReader parses a raw RFC 5322 message and analyzes it
func (f *CliFilter) ProcessReader(ctx context.Context, r io.Reader) (*core.SpamAnalysisResult, error) {
	email, err := ParseEmail(r)
	if err != nil {
		return nil, err
	}
	return f.ProcessEmail(ctx, email)
}

// ProcessText analyzes a bare message text
func (f *CliFilter) ProcessText(ctx context.Context, text string) (*core.SpamAnalysisResult, error) {
	return f.ProcessEmail(ctx, &core.Email{Body: text})
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
