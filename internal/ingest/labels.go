package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/pkg/logger"
)

var labelHeader = []string{"pseudo", "note"}

// LabelLoader reads the grade table CSV. It implements
// contracts.LabelSource.
type LabelLoader struct {
	path   string
	logger *logger.Logger
}

// NewLabelLoader creates a loader for the given CSV path.
func NewLabelLoader(path string, log *logger.Logger) *LabelLoader {
	return &LabelLoader{path: path, logger: log}
}

// Labels reads the full grade table.
func (l *LabelLoader) Labels(ctx context.Context) ([]contracts.Label, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open label table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(labelHeader)

	header, err := r.Read()
	if err != nil {
		return nil, &contracts.SchemaError{Table: "notes", Reason: "empty file"}
	}
	if err := checkHeader("notes", header, labelHeader); err != nil {
		return nil, err
	}

	var labels []contracts.Label
	for line := 2; ; line++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read label table line %d: %w", line, err)
		}

		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("label table line %d: bad grade %q: %w", line, record[1], err)
		}
		labels = append(labels, contracts.Label{SubjectID: record[0], Value: value})
	}

	l.logger.WithFields(map[string]interface{}{
		"path":   l.path,
		"labels": len(labels),
	}).Info("Loaded label table")

	return labels, nil
}
