// Package dataset loads labeled message corpora and prepares train/test splits.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
)

// Example is one labeled message.
type Example struct {
	Label   string `json:"label"`
	Message string `json:"text"`
}

// Texts returns the messages of examples.
func Texts(examples []Example) []string {
	out := make([]string, len(examples))
	for i, e := range examples {
		out[i] = e.Message
	}
	return out
}

// Labels returns the labels of examples.
func Labels(examples []Example) []string {
	out := make([]string, len(examples))
	for i, e := range examples {
		out[i] = e.Label
	}
	return out
}

// FileSource loads a corpus from a CSV or JSONL file, chosen by extension.
type FileSource struct {
	Path      string
	Encoding  string // for CSV: "latin-1" or "utf-8"
	StripHTML bool
}

// Load reads the corpus.
func (s FileSource) Load(ctx context.Context) ([]Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		examples []Example
		err      error
	)
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".jsonl", ".ndjson":
		examples, err = LoadJSONL(s.Path)
	default:
		var f *os.File
		f, err = os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		examples, err = LoadCSV(f, s.Encoding)
	}
	if err != nil {
		return nil, err
	}

	if s.StripHTML {
		for i := range examples {
			examples[i].Message = ExtractText(examples[i].Message)
		}
	}
	return examples, nil
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func requireExamples(examples []Example, path string) ([]Example, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no labeled messages in %s", internalerr.ErrEmptyTrainingSet, path)
	}
	return examples, nil
}
