package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulens/edulens/internal/contracts"
)

// RunRepository implements contracts.RunRepository on Postgres. Run
// metadata and the long-form feature cells of each run are kept so the
// API can serve the latest table without re-running the pipeline.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new run repository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// SaveRun persists one run record.
func (r *RunRepository) SaveRun(ctx context.Context, rec *contracts.RunRecord) error {
	query := `
		INSERT INTO runs.pipeline_runs
			(run_id, started_at, duration_ms, success, error,
			 subjects, columns, train_rows, test_rows, stages)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.RunID,
		rec.StartedAt,
		rec.Duration.Milliseconds(),
		rec.Success,
		rec.Error,
		rec.Subjects,
		rec.Columns,
		rec.TrainRows,
		rec.TestRows,
		rec.Stages,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// SaveFeatures bulk-inserts the wide table of a run in long form.
func (r *RunRepository) SaveFeatures(ctx context.Context, runID string, cells []contracts.FeatureCell) error {
	rows := make([][]interface{}, len(cells))
	for i, c := range cells {
		var num *float64
		var text *string
		if c.IsText {
			if c.Valid {
				v := c.TextValue
				text = &v
			}
		} else if c.Valid {
			v := c.NumValue
			num = &v
		}
		rows[i] = []interface{}{runID, c.SubjectID, c.Column, num, text, c.IsText}
	}

	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"runs", "feature_cells"},
		[]string{"run_id", "pseudo", "column_name", "num_value", "text_value", "is_text"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy feature cells: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run record, or nil when no run has
// been persisted yet.
func (r *RunRepository) LatestRun(ctx context.Context) (*contracts.RunRecord, error) {
	query := `
		SELECT run_id, started_at, duration_ms, success, error,
		       subjects, columns, train_rows, test_rows, stages
		FROM runs.pipeline_runs
		ORDER BY started_at DESC
		LIMIT 1
	`

	var rec contracts.RunRecord
	var durationMs int64
	err := r.pool.QueryRow(ctx, query).Scan(
		&rec.RunID,
		&rec.StartedAt,
		&durationMs,
		&rec.Success,
		&rec.Error,
		&rec.Subjects,
		&rec.Columns,
		&rec.TrainRows,
		&rec.TestRows,
		&rec.Stages,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	rec.Duration = time.Duration(durationMs) * time.Millisecond

	return &rec, nil
}

// Features returns the persisted wide table of one run in long form.
func (r *RunRepository) Features(ctx context.Context, runID string) ([]contracts.FeatureCell, error) {
	query := `
		SELECT pseudo, column_name, num_value, text_value, is_text
		FROM runs.feature_cells
		WHERE run_id = $1
		ORDER BY pseudo, column_name
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature cells: %w", err)
	}
	defer rows.Close()

	var cells []contracts.FeatureCell
	for rows.Next() {
		var c contracts.FeatureCell
		var num *float64
		var text *string
		if err := rows.Scan(&c.SubjectID, &c.Column, &num, &text, &c.IsText); err != nil {
			return nil, fmt.Errorf("failed to scan feature cell: %w", err)
		}
		if c.IsText {
			if text != nil {
				c.TextValue = *text
				c.Valid = true
			}
		} else if num != nil {
			c.NumValue = *num
			c.Valid = true
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feature cells: %w", err)
	}

	return cells, nil
}
