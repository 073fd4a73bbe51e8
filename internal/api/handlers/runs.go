// Package handlers implements the HTTP API handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/pipeline"
	"github.com/edulens/edulens/pkg/logger"
)

// RunsHandler serves pipeline run metadata and persisted feature tables,
// and triggers new runs.
type RunsHandler struct {
	runRepo      contracts.RunRepository
	orchestrator *pipeline.Orchestrator
	logger       *logger.Logger
}

// NewRunsHandler creates a new runs handler. runRepo may be nil when no
// database is configured; the read endpoints then return 503.
func NewRunsHandler(runRepo contracts.RunRepository, orchestrator *pipeline.Orchestrator, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		runRepo:      runRepo,
		orchestrator: orchestrator,
		logger:       log,
	}
}

// RunSummary is the API shape of a run record.
type RunSummary struct {
	RunID      string   `json:"runId"`
	StartedAt  string   `json:"startedAt"`
	DurationMs int64    `json:"durationMs"`
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	Subjects   int      `json:"subjects"`
	Columns    int      `json:"columns"`
	TrainRows  int      `json:"trainRows"`
	TestRows   int      `json:"testRows"`
	Stages     []string `json:"stages"`
}

// FeatureCellItem is the API shape of one wide-table cell.
type FeatureCellItem struct {
	Pseudo string   `json:"pseudo"`
	Column string   `json:"column"`
	Num    *float64 `json:"num,omitempty"`
	Text   *string  `json:"text,omitempty"`
}

// GetLatest returns the most recent run record.
func (h *RunsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	if h.runRepo == nil {
		writeError(w, http.StatusServiceUnavailable, "No database configured")
		return
	}

	rec, err := h.runRepo.LatestRun(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest run")
		writeError(w, http.StatusInternalServerError, "Failed to load latest run")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No runs yet")
		return
	}

	writeJSON(w, http.StatusOK, toSummary(rec))
}

// GetFeatures returns the persisted wide table of one run in long form.
func (h *RunsHandler) GetFeatures(w http.ResponseWriter, r *http.Request) {
	if h.runRepo == nil {
		writeError(w, http.StatusServiceUnavailable, "No database configured")
		return
	}

	runID := mux.Vars(r)["id"]
	cells, err := h.runRepo.Features(r.Context(), runID)
	if err != nil {
		h.logger.WithError(err).WithField("run_id", runID).Error("Failed to load features")
		writeError(w, http.StatusInternalServerError, "Failed to load features")
		return
	}
	if len(cells) == 0 {
		writeError(w, http.StatusNotFound, "Unknown run")
		return
	}

	items := make([]FeatureCellItem, len(cells))
	for i, c := range cells {
		item := FeatureCellItem{Pseudo: c.SubjectID, Column: c.Column}
		if c.Valid {
			if c.IsText {
				v := c.TextValue
				item.Text = &v
			} else {
				v := c.NumValue
				item.Num = &v
			}
		}
		items[i] = item
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runId": runID,
		"cells": items,
	})
}

// Trigger starts a pipeline run in the background and returns its ID.
func (h *RunsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	runID := pipeline.GenerateRunID()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if _, err := h.orchestrator.Run(ctx, pipeline.RunConfig{RunID: runID}); err != nil {
			h.logger.WithError(err).WithField("run_id", runID).Error("Triggered run failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"runId": runID})
}

func toSummary(rec *contracts.RunRecord) RunSummary {
	return RunSummary{
		RunID:      rec.RunID,
		StartedAt:  rec.StartedAt.Format(time.RFC3339),
		DurationMs: rec.Duration.Milliseconds(),
		Success:    rec.Success,
		Error:      rec.Error,
		Subjects:   rec.Subjects,
		Columns:    rec.Columns,
		TrainRows:  rec.TrainRows,
		TestRows:   rec.TestRows,
		Stages:     rec.Stages,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
