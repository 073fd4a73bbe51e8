package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edulens/edulens/internal/data/repos"
	"github.com/edulens/edulens/internal/scheduler"
	"github.com/edulens/edulens/internal/scheduler/jobs"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/database"
	"github.com/edulens/edulens/pkg/logger"
)

// schedulerCmd starts the cron daemon for periodic pipeline runs.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduler management",
	Long: `Starts the scheduler daemon.

Registered jobs:
- feature_pipeline: full pipeline run on PIPELINE_CRON (default 3 AM daily)

The scheduler runs until interrupted with Ctrl+C.

Example:
  go run ./cmd/edulens scheduler start`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler",
	RunE:  runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	events, labels := csvSources(cfg, log)
	orchestrator := newOrchestrator(cfg, events, labels, repos.NewRunRepository(db.Pool), log)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewPipelineJob(orchestrator, cfg, log)); err != nil {
		return fmt.Errorf("register pipeline job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("Shutdown signal received")

	return nil
}
