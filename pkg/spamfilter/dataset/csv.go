package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
)

// Supported CSV encodings.
const (
	EncodingLatin1 = "latin-1"
	EncodingUTF8   = "utf-8"
)

// LoadCSV reads a two-column (label, message) table. Column names are
// lower-cased; "v1"/"v2" headers are taken as label/message, otherwise the
// first two columns are used. Rows may carry extra trailing columns.
func LoadCSV(r io.Reader, encoding string) ([]Example, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingLatin1, "latin1", "iso-8859-1":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", internalerr.ErrInvalidConfig, encoding)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return requireExamples(nil, "csv input")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", internalerr.ErrTraining, err)
	}
	labelCol, msgCol := columns(header)

	var examples []Example
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", internalerr.ErrTraining, err)
		}
		if len(rec) <= labelCol || len(rec) <= msgCol {
			continue
		}
		label := normalizeLabel(rec[labelCol])
		if label == "" {
			continue
		}
		examples = append(examples, Example{Label: label, Message: rec[msgCol]})
	}
	return requireExamples(examples, "csv input")
}

func columns(header []string) (label, message int) {
	label, message = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "v1":
			label = i
		case "v2":
			message = i
		}
	}
	if label < 0 || message < 0 {
		return 0, 1
	}
	return label, message
}
