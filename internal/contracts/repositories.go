package contracts

import (
	"context"
	"time"
)

// EventSource provides the normalized event table. Implemented by the CSV
// loader and the Postgres repository.
type EventSource interface {
	Events(ctx context.Context) ([]Event, error)
}

// LabelSource provides the label table.
type LabelSource interface {
	Labels(ctx context.Context) ([]Label, error)
}

// EventRepository manages persisted event data.
type EventRepository interface {
	EventSource
	SaveBatch(ctx context.Context, events []Event) error
}

// LabelRepository manages persisted label data.
type LabelRepository interface {
	LabelSource
	SaveBatch(ctx context.Context, labels []Label) error
}

// RunRecord is the persisted metadata of one pipeline run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Success    bool
	Error      string
	Subjects   int
	Columns    int
	TrainRows  int
	TestRows   int
	Stages     []string
}

// FeatureCell is one value of the wide feature table in long form. Exactly
// one of NumValue/TextValue is set; a null numeric cell has Valid == false.
type FeatureCell struct {
	SubjectID string
	Column    string
	NumValue  float64
	TextValue string
	IsText    bool
	Valid     bool
}

// RunRepository persists run metadata and wide feature tables.
type RunRepository interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
	SaveFeatures(ctx context.Context, runID string, cells []FeatureCell) error
	LatestRun(ctx context.Context) (*RunRecord, error)
	Features(ctx context.Context, runID string) ([]FeatureCell, error)
}
