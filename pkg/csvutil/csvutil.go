package csvutil

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Serializer turns flat tabular rows into CSV text. It is pure and does no
// I/O, so the export pipeline can treat it as a deterministic collaborator.
type Serializer interface {
	Serialize(header []string, rows [][]string) (string, error)
}

// Writer is the encoding/csv backed Serializer.
type Writer struct{}

// NewWriter returns the default CSV serializer.
func NewWriter() *Writer {
	return &Writer{}
}

// Serialize renders the header followed by each row, RFC 4180 quoting
// applied by encoding/csv.
func (w *Writer) Serialize(header []string, rows [][]string) (string, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	return buf.String(), nil
}
