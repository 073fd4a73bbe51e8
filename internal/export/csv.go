// Package export writes pipeline outputs to CSV. Missing values are
// written as empty cells so the files round-trip through the usual
// dataframe tools.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

const subjectColumn = "pseudo"

// Writer writes CSV files into a fixed output directory.
type Writer struct {
	dir    string
	logger *logger.Logger
}

// NewWriter creates a writer rooted at dir. The directory is created on
// first write.
func NewWriter(dir string, log *logger.Logger) *Writer {
	return &Writer{dir: dir, logger: log}
}

// WriteFrame writes a keyed table as <name>.csv: a pseudo column first,
// then every frame column in frame order. Returns the file path.
func (w *Writer) WriteFrame(name string, f *frame.Frame) (string, error) {
	records := make([][]string, 0, f.NumRows()+1)
	records = append(records, append([]string{subjectColumn}, f.ColumnNames()...))

	cols := f.Columns()
	for i, key := range f.Keys() {
		row := make([]string, 0, len(cols)+1)
		row = append(row, key)
		for _, c := range cols {
			row = append(row, formatCell(c, i))
		}
		records = append(records, row)
	}

	return w.write(name, records)
}

// WriteVector writes a subject-aligned value vector as <name>.csv with a
// pseudo column and one value column.
func (w *Writer) WriteVector(name, column string, subjects []string, values []float64) (string, error) {
	if len(subjects) != len(values) {
		return "", fmt.Errorf("export %s: %d subjects but %d values", name, len(subjects), len(values))
	}

	records := make([][]string, 0, len(subjects)+1)
	records = append(records, []string{subjectColumn, column})
	for i, s := range subjects {
		records = append(records, []string{s, formatFloat(values[i])})
	}

	return w.write(name, records)
}

func (w *Writer) write(name string, records [][]string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(records) - 1,
	}).Info("Wrote CSV")

	return path, nil
}

func formatCell(c *frame.Column, row int) string {
	if c.Kind == frame.Categorical {
		v, ok := c.Cat(row)
		if !ok {
			return ""
		}
		return v
	}
	v, ok := c.Num(row)
	if !ok {
		return ""
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
