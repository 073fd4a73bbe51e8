package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edulens/edulens/internal/data/repos"
	"github.com/edulens/edulens/internal/ingest"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/database"
	"github.com/edulens/edulens/pkg/logger"
)

// importCmd loads the CSV inputs into Postgres.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the CSV inputs into the database",
	Long: `Reads the activity log and grade CSVs, normalizes them, and
bulk-inserts both into Postgres so later runs can use --from-db.

Example:
  go run ./cmd/edulens import`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
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

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := repos.NewEventRepository(db.Pool).SaveBatch(ctx, events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := repos.NewLabelRepository(db.Pool).SaveBatch(ctx, labels); err != nil {
		return fmt.Errorf("save labels: %w", err)
	}

	fmt.Printf("Imported %d events and %d grades\n", len(events), len(labels))
	return nil
}
