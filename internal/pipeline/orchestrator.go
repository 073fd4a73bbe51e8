// Package pipeline coordinates the full feature-preparation run: ingest,
// aggregate, label join and split, fitted transforms, export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/dataset"
	"github.com/edulens/edulens/internal/export"
	"github.com/edulens/edulens/internal/features"
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/internal/ingest"
	"github.com/edulens/edulens/internal/transform"
	"github.com/edulens/edulens/pkg/logger"
)

// Orchestrator coordinates the pipeline stages.
type Orchestrator struct {
	events    contracts.EventSource
	labels    contracts.LabelSource
	composer  *features.Composer
	splitter  *dataset.Splitter
	processor *transform.Processor
	writer    *export.Writer

	// Optional: when set, run metadata and the wide table are persisted.
	runRepo contracts.RunRepository

	logger *logger.Logger
}

// RunConfig holds configuration for a pipeline run.
type RunConfig struct {
	RunID string
}

// RunResult holds the results of a complete pipeline run.
type RunResult struct {
	RunID           string
	StartedAt       time.Time
	Duration        time.Duration
	Success         bool
	Error           error
	CompletedStages []string

	Subjects  int
	Columns   int
	TrainRows int
	TestRows  int
	Artifacts []string
}

// NewOrchestrator creates a new orchestrator. runRepo may be nil when no
// database is configured.
func NewOrchestrator(
	events contracts.EventSource,
	labels contracts.LabelSource,
	composer *features.Composer,
	splitter *dataset.Splitter,
	processor *transform.Processor,
	writer *export.Writer,
	runRepo contracts.RunRepository,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		events:    events,
		labels:    labels,
		composer:  composer,
		splitter:  splitter,
		processor: processor,
		writer:    writer,
		runRepo:   runRepo,
		logger:    log,
	}
}

// Run executes the complete pipeline:
// ingest → compose → join/split → transform → export.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		RunID:           config.RunID,
		StartedAt:       startTime,
		CompletedStages: make([]string, 0),
	}

	o.logger.WithField("run_id", config.RunID).Info("Starting pipeline run")

	events, labels, err := o.runIngest(ctx)
	if err != nil {
		return o.fail(result, fmt.Errorf("ingest failed: %w", err))
	}
	result.CompletedStages = append(result.CompletedStages, "ingest")

	wide, err := o.runCompose(ctx, events)
	if err != nil {
		return o.fail(result, fmt.Errorf("compose failed: %w", err))
	}
	result.Subjects = wide.NumRows()
	result.Columns = wide.NumCols()
	result.CompletedStages = append(result.CompletedStages, "compose")

	split, err := o.runSplit(wide, labels)
	if err != nil {
		return o.fail(result, fmt.Errorf("split failed: %w", err))
	}
	result.TrainRows = len(split.TrainSubjects)
	result.TestRows = len(split.TestSubjects)
	result.CompletedStages = append(result.CompletedStages, "split")

	trainX, testX, err := o.runTransform(split)
	if err != nil {
		return o.fail(result, fmt.Errorf("transform failed: %w", err))
	}
	result.CompletedStages = append(result.CompletedStages, "transform")

	artifacts, err := o.runExport(wide, split, trainX, testX)
	if err != nil {
		return o.fail(result, fmt.Errorf("export failed: %w", err))
	}
	result.Artifacts = artifacts
	result.CompletedStages = append(result.CompletedStages, "export")

	result.Success = true
	result.Duration = time.Since(startTime)

	o.persist(ctx, result, wide)

	o.logger.WithFields(map[string]interface{}{
		"run_id":   config.RunID,
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

func (o *Orchestrator) fail(result *RunResult, err error) (*RunResult, error) {
	result.Error = err
	result.Duration = time.Since(result.StartedAt)
	o.persist(context.Background(), result, nil)
	return result, err
}

func (o *Orchestrator) runIngest(ctx context.Context) ([]contracts.Event, []contracts.Label, error) {
	o.logger.Info("Running ingest")

	events, err := o.events.Events(ctx)
	if err != nil {
		return nil, nil, err
	}
	labels, err := o.labels.Labels(ctx)
	if err != nil {
		return nil, nil, err
	}

	// Keep only subjects present on both sides before aggregating.
	events = ingest.FilterEvents(events, labels)
	labels = ingest.FilterLabels(labels, events)

	o.logger.WithFields(map[string]interface{}{
		"events": len(events),
		"labels": len(labels),
	}).Info("Ingest complete")

	return events, labels, nil
}

func (o *Orchestrator) runCompose(ctx context.Context, events []contracts.Event) (*frame.Frame, error) {
	o.logger.Info("Running feature composition")
	return o.composer.Compose(ctx, events)
}

func (o *Orchestrator) runSplit(wide *frame.Frame, labels []contracts.Label) (*dataset.Split, error) {
	o.logger.Info("Running label join and split")

	labeled, err := dataset.JoinLabels(wide, labels)
	if err != nil {
		return nil, err
	}
	return o.splitter.Split(labeled)
}

func (o *Orchestrator) runTransform(split *dataset.Split) (trainX, testX *frame.Frame, err error) {
	o.logger.Info("Running post-processing")

	fitted, trainX, err := o.processor.Fit(split.TrainX)
	if err != nil {
		return nil, nil, err
	}
	testX, err = fitted.Apply(split.TestX)
	if err != nil {
		return nil, nil, err
	}
	return trainX, testX, nil
}

func (o *Orchestrator) runExport(wide *frame.Frame, split *dataset.Split, trainX, testX *frame.Frame) ([]string, error) {
	o.logger.Info("Running export")

	var artifacts []string
	outputs := []struct {
		name string
		f    *frame.Frame
	}{
		{"df_complet", wide},
		{"X_train", trainX},
		{"X_test", testX},
	}
	for _, out := range outputs {
		path, err := o.writer.WriteFrame(out.name, out.f)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, path)
	}

	vectors := []struct {
		name     string
		subjects []string
		values   []float64
	}{
		{"y_train", split.TrainSubjects, split.TrainY},
		{"y_test", split.TestSubjects, split.TestY},
	}
	for _, v := range vectors {
		path, err := o.writer.WriteVector(v.name, "note", v.subjects, v.values)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, path)
	}

	return artifacts, nil
}

// persist saves run metadata and, on success, the wide table. Persistence
// failures are logged, not fatal: the exported files are the primary
// artifact.
func (o *Orchestrator) persist(ctx context.Context, result *RunResult, wide *frame.Frame) {
	if o.runRepo == nil {
		return
	}

	rec := &contracts.RunRecord{
		RunID:     result.RunID,
		StartedAt: result.StartedAt,
		Duration:  result.Duration,
		Success:   result.Success,
		Subjects:  result.Subjects,
		Columns:   result.Columns,
		TrainRows: result.TrainRows,
		TestRows:  result.TestRows,
		Stages:    result.CompletedStages,
	}
	if result.Error != nil {
		rec.Error = result.Error.Error()
	}

	if err := o.runRepo.SaveRun(ctx, rec); err != nil {
		o.logger.WithError(err).Error("Failed to persist run record")
		return
	}
	if wide == nil {
		return
	}
	if err := o.runRepo.SaveFeatures(ctx, result.RunID, FeatureCells(wide)); err != nil {
		o.logger.WithError(err).Error("Failed to persist wide table")
	}
}

// FeatureCells flattens a wide table into long-form cells for storage.
func FeatureCells(f *frame.Frame) []contracts.FeatureCell {
	cells := make([]contracts.FeatureCell, 0, f.NumRows()*f.NumCols())
	for i, key := range f.Keys() {
		for _, c := range f.Columns() {
			cell := contracts.FeatureCell{
				SubjectID: key,
				Column:    c.Name,
				IsText:    c.Kind == frame.Categorical,
			}
			if cell.IsText {
				cell.TextValue, cell.Valid = c.Cat(i)
			} else {
				cell.NumValue, cell.Valid = c.Num(i)
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// GenerateRunID generates a unique run ID.
func GenerateRunID() string {
	return fmt.Sprintf("run_%s", time.Now().Format("20060102_150405"))
}
