// Package dataset reads labeled message corpora.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/mikey/spam-model-trainer/internal/core"
)

// UnknownLabelPolicy decides what happens to rows whose label is neither
// ham nor spam.
type UnknownLabelPolicy string

const (
	RejectUnknownLabels UnknownLabelPolicy = "reject"
	DropUnknownLabels   UnknownLabelPolicy = "drop"
)

var (
	labelFallbacks = []string{"label", "class", "target", "category"}
	textFallbacks  = []string{"text", "message", "body", "sms"}
)

// Options configures a CSVLoader
type Options struct {
	LabelColumn   string
	TextColumn    string
	Encoding      string
	UnknownLabels UnknownLabelPolicy
}

// CSVLoader reads a CSV file with a header row into a dataset
type CSVLoader struct {
	opts     Options
	encoding encoding.Encoding
	logger   *zap.Logger
}

// NewCSVLoader creates a new CSV loader
func NewCSVLoader(opts Options, logger *zap.Logger) (*CSVLoader, error) {
	if opts.Encoding == "" {
		opts.Encoding = "utf-8"
	}
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	switch opts.UnknownLabels {
	case "":
		opts.UnknownLabels = RejectUnknownLabels
	case RejectUnknownLabels, DropUnknownLabels:
	default:
		return nil, fmt.Errorf("unsupported unknown label policy: %s", opts.UnknownLabels)
	}

	return &CSVLoader{opts: opts, encoding: enc, logger: logger}, nil
}

// lookupEncoding resolves a charset name through the IANA registry. The
// common spellings "latin-1" and "utf8" are accepted as well.
func lookupEncoding(name string) (encoding.Encoding, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "latin-1", "latin_1":
		normalized = "latin1"
	case "utf8":
		normalized = "utf-8"
	}

	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// Load reads every record from the file at path
func (l *CSVLoader) Load(ctx context.Context, path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return l.Read(ctx, f, path)
}

// Read decodes and parses a CSV stream. source names the stream in errors
// and in the returned dataset.
func (l *CSVLoader) Read(ctx context.Context, r io.Reader, source string) (*core.Dataset, error) {
	cr := csv.NewReader(transform.NewReader(r, l.encoding.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", source, core.ErrEmptyDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	labelIdx, err := findColumn(head, l.opts.LabelColumn, labelFallbacks)
	if err != nil {
		return nil, fmt.Errorf("%s: label column: %w", source, err)
	}
	textIdx, err := findColumn(head, l.opts.TextColumn, textFallbacks)
	if err != nil {
		return nil, fmt.Errorf("%s: text column: %w", source, err)
	}
	need := max(labelIdx, textIdx) + 1

	ds := &core.Dataset{Source: source}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		line, _ := cr.FieldPos(0)

		if len(row) < need {
			return nil, fmt.Errorf("%s line %d: expected at least %d columns, got %d", source, line, need, len(row))
		}

		label, err := core.ParseLabel(row[labelIdx])
		if err != nil {
			if l.opts.UnknownLabels == DropUnknownLabels {
				l.logger.Warn("Dropping row with unknown label",
					zap.String("source", source),
					zap.Int("line", line),
					zap.String("label", row[labelIdx]))
				ds.Dropped++
				continue
			}
			return nil, fmt.Errorf("%s line %d: %w", source, line, err)
		}

		ds.Records = append(ds.Records, core.Record{Label: label, Text: row[textIdx], Line: line})
	}

	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("%s: %w", source, core.ErrEmptyDataset)
	}

	l.logger.Debug("Read dataset",
		zap.String("source", source),
		zap.Int("records", len(ds.Records)),
		zap.Int("dropped", ds.Dropped))
	return ds, nil
}

// findColumn returns the index of the preferred column, or of the first
// fallback name present when preferred is missing. Matching ignores case
// and surrounding whitespace.
func findColumn(head []string, preferred string, fallbacks []string) (int, error) {
	index := make(map[string]int, len(head))
	for i, h := range head {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	for _, name := range append([]string{preferred}, fallbacks...) {
		if name == "" {
			continue
		}
		if i, ok := index[strings.ToLower(name)]; ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("none of %q found in header %q", append([]string{preferred}, fallbacks...), head)
}
