package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edulens/edulens/internal/export"
	"github.com/edulens/edulens/internal/ingest"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/logger"
)

// featuresCmd builds the wide feature table and writes it as CSV.
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Build and export the wide feature table",
	Long: `Aggregates the activity log into one row per student and writes the
wide feature table to <output dir>/df_complet.csv.

No label join, split, or post-processing happens here; use "prepare" or
"run" for model-ready matrices.

Example:
  go run ./cmd/edulens features`,
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)
	ctx := context.Background()

	events, err := ingest.NewEventLoader(cfg.Dataset.EventsCSV, log).Events(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	labels, err := ingest.NewLabelLoader(cfg.Dataset.LabelsCSV, log).Labels(ctx)
	if err != nil {
		return fmt.Errorf("load labels: %w", err)
	}
	events = ingest.FilterEvents(events, labels)

	wide, err := newComposer(log).Compose(ctx, events)
	if err != nil {
		return fmt.Errorf("compose features: %w", err)
	}

	path, err := export.NewWriter(cfg.Dataset.OutputDir, log).WriteFrame("df_complet", wide)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("Wrote %d subjects x %d features to %s\n", wide.NumRows(), wide.NumCols(), path)
	return nil
}
