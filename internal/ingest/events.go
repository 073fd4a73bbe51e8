// Package ingest loads the raw activity log and grade table from CSV and
// normalizes them into the contract types the pipeline consumes.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/pkg/logger"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04:05"
)

// contextSeparator splits the raw compound context field, which carries
// the component and the general context in one cell.
const contextSeparator = " / "

var eventHeader = []string{"pseudo", "jour", "heures", "contexte", "evenement"}

// EventLoader reads the activity log CSV. It implements
// contracts.EventSource.
type EventLoader struct {
	path   string
	logger *logger.Logger
}

// NewEventLoader creates a loader for the given CSV path.
func NewEventLoader(path string, log *logger.Logger) *EventLoader {
	return &EventLoader{path: path, logger: log}
}

// Events reads and normalizes the full log. The header is validated
// column by column; a wrong or missing column is a SchemaError. The
// compound context cell is split into component and general context.
func (l *EventLoader) Events(ctx context.Context) ([]contracts.Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(eventHeader)

	header, err := r.Read()
	if err != nil {
		return nil, &contracts.SchemaError{Table: "logs", Reason: "empty file"}
	}
	if err := checkHeader("logs", header, eventHeader); err != nil {
		return nil, err
	}

	var events []contracts.Event
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
			return nil, fmt.Errorf("read event log line %d: %w", line, err)
		}

		ev, err := parseEvent(record)
		if err != nil {
			return nil, fmt.Errorf("event log line %d: %w", line, err)
		}
		events = append(events, ev)
	}

	l.logger.WithFields(map[string]interface{}{
		"path":   l.path,
		"events": len(events),
	}).Info("Loaded event log")

	return events, nil
}

func parseEvent(record []string) (contracts.Event, error) {
	day, err := time.Parse(dayLayout, record[1])
	if err != nil {
		return contracts.Event{}, fmt.Errorf("bad day %q: %w", record[1], err)
	}
	clock, err := time.Parse(timeLayout, record[2])
	if err != nil {
		return contracts.Event{}, fmt.Errorf("bad time %q: %w", record[2], err)
	}

	component, general, ok := strings.Cut(record[3], contextSeparator)
	if !ok {
		return contracts.Event{}, fmt.Errorf("context %q has no %q separator", record[3], contextSeparator)
	}

	return contracts.Event{
		SubjectID: record[0],
		Day:       day,
		TimeOfDay: time.Duration(clock.Hour())*time.Hour +
			time.Duration(clock.Minute())*time.Minute +
			time.Duration(clock.Second())*time.Second,
		Component:      strings.TrimSpace(component),
		GeneralContext: strings.TrimSpace(general),
		EventType:      record[4],
	}, nil
}

func checkHeader(table string, got, want []string) error {
	for i, name := range want {
		if i >= len(got) {
			return &contracts.SchemaError{Table: table, Column: name, Reason: "column missing"}
		}
		if !strings.EqualFold(strings.TrimSpace(got[i]), name) {
			return &contracts.SchemaError{
				Table:  table,
				Column: name,
				Reason: fmt.Sprintf("expected at position %d, found %q", i, got[i]),
			}
		}
	}
	return nil
}
