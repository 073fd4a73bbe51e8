package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/pkg/logger"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEventLoaderParsesAndSplitsContext(t *testing.T) {
	path := writeCSV(t, "logs.csv",
		"pseudo,jour,heures,contexte,evenement\n"+
			"alice,2024-03-01,08:15:30,Forum / Cours A,viewed\n"+
			"bob,2024-03-02,23:05:00,Quiz / Cours B,submitted\n")

	events, err := NewEventLoader(path, logger.NewNop()).Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	e := events[0]
	assert.Equal(t, "alice", e.SubjectID)
	assert.Equal(t, "2024-03-01", contracts.DayKey(e.Day))
	assert.Equal(t, 8*time.Hour+15*time.Minute+30*time.Second, e.TimeOfDay)
	assert.Equal(t, "Forum", e.Component)
	assert.Equal(t, "Cours A", e.GeneralContext)
	assert.Equal(t, "viewed", e.EventType)
}

func TestEventLoaderRejectsBadHeader(t *testing.T) {
	path := writeCSV(t, "logs.csv",
		"pseudo,date,heures,contexte,evenement\n"+
			"alice,2024-03-01,08:15:30,Forum / Cours A,viewed\n")

	_, err := NewEventLoader(path, logger.NewNop()).Events(context.Background())
	require.Error(t, err)
	assert.True(t, contracts.IsSchemaError(err))
}

func TestEventLoaderRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad day", "alice,01/03/2024,08:15:30,Forum / Cours A,viewed"},
		{"bad time", "alice,2024-03-01,8h15,Forum / Cours A,viewed"},
		{"no context separator", "alice,2024-03-01,08:15:30,Forum,viewed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, "logs.csv",
				"pseudo,jour,heures,contexte,evenement\n"+tt.row+"\n")
			_, err := NewEventLoader(path, logger.NewNop()).Events(context.Background())
			require.Error(t, err)
		})
	}
}

func TestLabelLoaderParsesGrades(t *testing.T) {
	path := writeCSV(t, "notes.csv",
		"pseudo,note\nalice,14.5\nbob,9\n")

	labels, err := NewLabelLoader(path, logger.NewNop()).Labels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []contracts.Label{
		{SubjectID: "alice", Value: 14.5},
		{SubjectID: "bob", Value: 9},
	}, labels)
}

func TestLabelLoaderRejectsBadGrade(t *testing.T) {
	path := writeCSV(t, "notes.csv", "pseudo,note\nalice,absent\n")

	_, err := NewLabelLoader(path, logger.NewNop()).Labels(context.Background())
	require.Error(t, err)
}

func TestFiltersIntersectSubjects(t *testing.T) {
	events := []contracts.Event{
		{SubjectID: "alice"},
		{SubjectID: "bob"},
		{SubjectID: "carol"},
	}
	labels := []contracts.Label{
		{SubjectID: "alice", Value: 10},
		{SubjectID: "dave", Value: 12},
	}

	kept := FilterEvents(events, labels)
	require.Len(t, kept, 1)
	assert.Equal(t, "alice", kept[0].SubjectID)

	keptLabels := FilterLabels(labels, events)
	require.Len(t, keptLabels, 1)
	assert.Equal(t, "alice", keptLabels[0].SubjectID)
}
