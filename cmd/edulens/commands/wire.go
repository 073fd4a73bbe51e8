package commands

import (
	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/dataset"
	"github.com/edulens/edulens/internal/export"
	"github.com/edulens/edulens/internal/features"
	"github.com/edulens/edulens/internal/ingest"
	"github.com/edulens/edulens/internal/pipeline"
	"github.com/edulens/edulens/internal/transform"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/logger"
)

// newComposer wires the aggregators into a feature composer.
func newComposer(log *logger.Logger) *features.Composer {
	return features.NewComposer(
		features.NewActivityCalculator(log),
		features.NewTemporalCalculator(log),
		features.NewClockCalculator(log),
		features.NewCategoricalCalculator(log),
		log,
	)
}

// csvSources builds the file-backed event and label sources.
func csvSources(cfg *config.Config, log *logger.Logger) (contracts.EventSource, contracts.LabelSource) {
	return ingest.NewEventLoader(cfg.Dataset.EventsCSV, log),
		ingest.NewLabelLoader(cfg.Dataset.LabelsCSV, log)
}

// newOrchestrator wires a full pipeline over the given sources. runRepo
// may be nil when no persistence is wanted.
func newOrchestrator(
	cfg *config.Config,
	events contracts.EventSource,
	labels contracts.LabelSource,
	runRepo contracts.RunRepository,
	log *logger.Logger,
) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(
		events,
		labels,
		newComposer(log),
		dataset.NewSplitter(cfg.Pipeline.TestRatio, cfg.Pipeline.SplitSeed, log),
		transform.NewProcessor(log),
		export.NewWriter(cfg.Dataset.OutputDir, log),
		runRepo,
		log,
	)
}
