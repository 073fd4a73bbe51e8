// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/edulens/edulens/internal/pipeline"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/logger"
)

// PipelineJob rebuilds the feature matrices on a schedule, picking up
// whatever new activity has landed in the log since the last run.
type PipelineJob struct {
	orchestrator *pipeline.Orchestrator
	config       *config.Config
	logger       *logger.Logger
}

// NewPipelineJob creates a new pipeline job.
func NewPipelineJob(o *pipeline.Orchestrator, cfg *config.Config, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		orchestrator: o,
		config:       cfg,
		logger:       log,
	}
}

// Name returns the job name.
func (j *PipelineJob) Name() string {
	return "feature_pipeline"
}

// Schedule returns the configured cron expression.
func (j *PipelineJob) Schedule() string {
	return j.config.Pipeline.CronSpec
}

// Run executes a full pipeline run.
func (j *PipelineJob) Run(ctx context.Context) error {
	runID := pipeline.GenerateRunID()
	j.logger.WithField("run_id", runID).Info("Starting scheduled pipeline run")

	result, err := j.orchestrator.Run(ctx, pipeline.RunConfig{RunID: runID})
	if err != nil {
		return fmt.Errorf("pipeline run %s: %w", runID, err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"subjects": result.Subjects,
		"columns":  result.Columns,
	}).Info("Scheduled pipeline run completed")

	return nil
}
