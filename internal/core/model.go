package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mikey/spam-model-trainer/internal/classifier"
	"github.com/mikey/spam-model-trainer/internal/vectorizer"
)

// Label is the class of a message. Spam is the positive class.
type Label int

const (
	Ham  Label = 0
	Spam Label = 1
)

func (l Label) String() string {
	switch l {
	case Ham:
		return "ham"
	case Spam:
		return "spam"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// ParseLabel accepts "ham"/"spam" in any case and "0"/"1".
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ham", "0":
		return Ham, nil
	case "spam", "1":
		return Spam, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
}

// Record is one labeled message from the dataset. Line is the 1-based CSV
// line it was read from.
type Record struct {
	Label Label
	Text  string
	Line  int
}

// Dataset is the loaded corpus in file order.
type Dataset struct {
	Source  string
	Records []Record
	// Dropped counts rows skipped because their label was not recognized.
	Dropped int
}

// Texts returns the message texts in record order.
func (d *Dataset) Texts() []string {
	return lo.Map(d.Records, func(r Record, _ int) string { return r.Text })
}

// Labels returns the labels as 0/1 integers in record order.
func (d *Dataset) Labels() []int {
	return lo.Map(d.Records, func(r Record, _ int) int { return int(r.Label) })
}

// Artifacts is everything needed to classify new text after training.
type Artifacts struct {
	Name       string
	RunID      string
	CreatedAt  time.Time
	Model      *classifier.Model
	Fit        classifier.FitResult
	Vectorizer *vectorizer.CountVectorizer
	Metrics    classifier.Metrics
}

// TrainingResult summarizes a completed training run.
type TrainingResult struct {
	RunID          string
	Records        int
	Dropped        int
	TrainSize      int
	TestSize       int
	VocabularySize int
	Fit            classifier.FitResult
	Metrics        classifier.Metrics
	Duration       time.Duration
	Artifacts      *Artifacts
}

// TokenContribution is one vocabulary term's share of a spam score.
// Direction is Spam for terms that raise the score and Ham for those that
// lower it.
type TokenContribution struct {
	Token     string
	Weight    float64
	Direction Label
}

// Prediction is the classification of a single text.
type Prediction struct {
	Score  float64
	IsSpam bool
	Tokens []TokenContribution
}

// Email represents an email message
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	Headers map[string][]string
}

// Text returns the subject and body as one document.
func (e *Email) Text() string {
	if e.Subject == "" {
		return e.Body
	}
	return e.Subject + "\n" + e.Body
}

// SpamAnalysisResult represents the result of spam analysis. Score is
// P(spam); Confidence is max(Score, 1-Score), the probability of the more
// likely class, so it ranges over [0.5, 1].
type SpamAnalysisResult struct {
	IsSpam       bool
	Score        float64
	Confidence   float64
	Explanation  string
	AnalyzedAt   time.Time
	ModelUsed    string
	ProcessingID string
	Tokens       []TokenContribution
}
