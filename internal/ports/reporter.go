package ports

import (
	"github.com/mikey/spam-model-trainer/internal/core"
)

// Reporter presents results to the user
type Reporter interface {
	// ReportTraining presents the outcome of a training run
	ReportTraining(res *core.TrainingResult) error

	// ReportAnalysis presents the verdict for one message
	ReportAnalysis(email *core.Email, res *core.SpamAnalysisResult) error
}
