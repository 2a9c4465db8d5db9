package ports

import (
	"context"
	"io"

	"github.com/mikey/spam-model-trainer/internal/core"
)

// EmailFilter defines the interface for email filtering
type EmailFilter interface {
	// ProcessEmail processes an email and returns the filtering result
	ProcessEmail(ctx context.Context, email *core.Email) (*core.SpamAnalysisResult, error)

	// ProcessReader parses a raw message and processes it
	ProcessReader(ctx context.Context, r io.Reader) (*core.SpamAnalysisResult, error)

	// ProcessText processes a bare message text
	ProcessText(ctx context.Context, text string) (*core.SpamAnalysisResult, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
