package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/data/repos"
	"github.com/edulens/edulens/internal/pipeline"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/database"
	"github.com/edulens/edulens/pkg/logger"
)

// runCmd executes a full orchestrated pipeline run.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a full pipeline run",
	Long: `Executes the complete pipeline and, optionally, records the run and
its wide table in Postgres.

Flags:
  --persist   save run metadata + wide table to the database
  --from-db   read events and grades from the database instead of CSV

Example:
  go run ./cmd/edulens run
  go run ./cmd/edulens run --persist --from-db`,
	RunE: runPipeline,
}

var (
	runPersist bool
	runFromDB  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runPersist, "persist", false, "persist run metadata and wide table")
	runCmd.Flags().BoolVar(&runFromDB, "from-db", false, "read events and grades from the database")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	events, labels := csvSources(cfg, log)
	var runRepo contracts.RunRepository

	if runPersist || runFromDB {
		if err := cfg.RequireDatabase(); err != nil {
			return err
		}
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if runFromDB {
			events = repos.NewEventRepository(db.Pool)
			labels = repos.NewLabelRepository(db.Pool)
		}
		if runPersist {
			runRepo = repos.NewRunRepository(db.Pool)
		}
	}

	o := newOrchestrator(cfg, events, labels, runRepo, log)
	result, err := o.Run(context.Background(), pipeline.RunConfig{RunID: pipeline.GenerateRunID()})
	if err != nil {
		return err
	}

	fmt.Printf("Run %s completed in %s (%d stages)\n",
		result.RunID, result.Duration, len(result.CompletedStages))
	return nil
}
