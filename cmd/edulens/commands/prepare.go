package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edulens/edulens/internal/pipeline"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/logger"
)

// prepareCmd runs the full preparation without persistence.
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Build model-ready train/test matrices",
	Long: `Runs the whole pipeline from the CSV inputs: feature aggregation,
grade join, reproducible train/test split, and the fitted
post-processing chain (correlation pruning, one-hot encoding, min-max
scaling). Writes df_complet, X_train, X_test, y_train and y_test to the
output directory.

Example:
  go run ./cmd/edulens prepare`,
	RunE: runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	events, labels := csvSources(cfg, log)
	o := newOrchestrator(cfg, events, labels, nil, log)

	result, err := o.Run(context.Background(), pipeline.RunConfig{RunID: pipeline.GenerateRunID()})
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d subjects, %d train / %d test rows\n",
		result.RunID, result.Subjects, result.TrainRows, result.TestRows)
	for _, a := range result.Artifacts {
		fmt.Println("  " + a)
	}
	return nil
}
