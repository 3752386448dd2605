package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LoadJSONL loads examples from a JSONL file with "label" and "text" fields.
// Malformed or unlabeled lines are skipped with a warning.
func LoadJSONL(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var examples []Example
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var ex Example
		if err := json.Unmarshal([]byte(line), &ex); err != nil {
			logrus.WithFields(logrus.Fields{"path": path, "line": i + 1}).
				Warnf("skipping malformed JSON: %v", err)
			continue
		}
		ex.Label = normalizeLabel(ex.Label)
		if ex.Label == "" {
			continue
		}
		examples = append(examples, ex)
	}

	return requireExamples(examples, path)
}
