package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulens/edulens/internal/contracts"
)

// LabelRepository implements contracts.LabelRepository on Postgres.
type LabelRepository struct {
	pool *pgxpool.Pool
}

// NewLabelRepository creates a new label repository.
func NewLabelRepository(pool *pgxpool.Pool) *LabelRepository {
	return &LabelRepository{pool: pool}
}

// Labels retrieves the full grade table.
func (r *LabelRepository) Labels(ctx context.Context) ([]contracts.Label, error) {
	query := `
		SELECT pseudo, note
		FROM logs.labels
		ORDER BY pseudo
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []contracts.Label
	for rows.Next() {
		var l contracts.Label
		if err := rows.Scan(&l.SubjectID, &l.Value); err != nil {
			return nil, fmt.Errorf("failed to scan label row: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating label rows: %w", err)
	}

	return labels, nil
}

// SaveBatch bulk-inserts labels with COPY.
func (r *LabelRepository) SaveBatch(ctx context.Context, labels []contracts.Label) error {
	rows := make([][]interface{}, len(labels))
	for i, l := range labels {
		rows[i] = []interface{}{l.SubjectID, l.Value}
	}

	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"logs", "labels"},
		[]string{"pseudo", "note"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy labels: %w", err)
	}
	return nil
}
