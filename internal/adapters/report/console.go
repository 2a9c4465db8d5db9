// Package report renders training and analysis results for a terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mikey/spam-model-trainer/internal/core"
)

// ConsoleReporter writes human-readable tables
type ConsoleReporter struct {
	w       io.Writer
	colored bool
}

// NewConsoleReporter creates a reporter writing to w. Colors are applied to
// section headers only when colored is set.
func NewConsoleReporter(w io.Writer, colored bool) *ConsoleReporter {
	return &ConsoleReporter{w: w, colored: colored}
}

func (r *ConsoleReporter) header(title string) {
	line := "=== " + title + " ==="
	if r.colored {
		line = color.New(color.BgBlack, color.FgGreen).Render(line)
	}
	fmt.Fprintf(r.w, "\n%s\n", line)
}

func (r *ConsoleReporter) table(head []string) *tablewriter.Table {
	t := tablewriter.NewWriter(r.w)
	t.SetHeader(head)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func f4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// ReportTraining prints the dataset sizes, fit summary, scores and the
// confusion matrix of a training run.
func (r *ConsoleReporter) ReportTraining(res *core.TrainingResult) error {
	r.header("Training Run")
	run := r.table([]string{"Field", "Value"})
	run.AppendBulk([][]string{
		{"Run ID", res.RunID},
		{"Records", strconv.Itoa(res.Records)},
		{"Dropped", strconv.Itoa(res.Dropped)},
		{"Train samples", strconv.Itoa(res.TrainSize)},
		{"Test samples", strconv.Itoa(res.TestSize)},
		{"Vocabulary size", strconv.Itoa(res.VocabularySize)},
		{"Iterations", strconv.Itoa(res.Fit.Iterations)},
		{"Converged", strconv.FormatBool(res.Fit.Converged)},
		{"Duration", res.Duration.String()},
	})
	run.Render()

	r.header("Model Performance")
	m := res.Metrics
	scores := r.table([]string{"Metric", "Value"})
	scores.AppendBulk([][]string{
		{"Accuracy", f4(m.Accuracy)},
		{"Precision", f4(m.Precision)},
		{"Recall", f4(m.Recall)},
		{"F1-Score", f4(m.F1)},
	})
	scores.Render()

	r.header("Confusion Matrix")
	cm := r.table([]string{"", "Predicted ham", "Predicted spam"})
	cm.AppendBulk([][]string{
		{"Actual ham", strconv.Itoa(m.Confusion.TN()), strconv.Itoa(m.Confusion.FP())},
		{"Actual spam", strconv.Itoa(m.Confusion.FN()), strconv.Itoa(m.Confusion.TP())},
	})
	cm.Render()
	return nil
}

// ReportAnalysis prints the verdict for one message.
func (r *ConsoleReporter) ReportAnalysis(email *core.Email, res *core.SpamAnalysisResult) error {
	if email != nil && (email.From != "" || email.Subject != "") {
		r.header("Email Summary")
		fmt.Fprintf(r.w, "From: %s\n", email.From)
		fmt.Fprintf(r.w, "Subject: %s\n", email.Subject)
		fmt.Fprintf(r.w, "Body length: %d bytes\n", len(email.Body))
	}

	r.header("Results")
	out := r.table([]string{"Field", "Value"})
	out.AppendBulk([][]string{
		{"Is spam", strconv.FormatBool(res.IsSpam)},
		{"Spam score", f4(res.Score)},
		{"Confidence", f4(res.Confidence)},
		{"Explanation", res.Explanation},
		{"Model used", res.ModelUsed},
	})
	out.Render()

	if len(res.Tokens) > 0 {
		r.header("Top Tokens")
		tokens := r.table([]string{"Token", "Contribution", "Direction"})
		for _, t := range res.Tokens {
			tokens.Append([]string{t.Token, f4(t.Weight), t.Direction.String()})
		}
		tokens.Render()
	}
	return nil
}
