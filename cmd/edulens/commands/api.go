package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/edulens/edulens/internal/api"
	"github.com/edulens/edulens/internal/api/handlers"
	"github.com/edulens/edulens/internal/data/repos"
	"github.com/edulens/edulens/pkg/config"
	"github.com/edulens/edulens/pkg/database"
	"github.com/edulens/edulens/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                  - Health check
  GET  /api/runs/latest         - Latest pipeline run summary
  GET  /api/runs/{id}/features  - Persisted wide table of a run
  POST /api/runs                - Trigger a pipeline run

Example:
  go run ./cmd/edulens api
  go run ./cmd/edulens api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	runRepo := repos.NewRunRepository(db.Pool)
	events, labels := csvSources(cfg, log)
	orchestrator := newOrchestrator(cfg, events, labels, runRepo, log)

	runsHandler := handlers.NewRunsHandler(runRepo, orchestrator, log)
	router := api.NewRouter(runsHandler, rate.Limit(cfg.Pipeline.RateLimit), log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
