// Package repos implements the contracts repositories on Postgres.
package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulens/edulens/internal/contracts"
)

// EventRepository implements contracts.EventRepository on Postgres.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new event repository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Events retrieves the full normalized event log, ordered by subject and
// day so reruns see a stable sequence.
func (r *EventRepository) Events(ctx context.Context) ([]contracts.Event, error) {
	query := `
		SELECT pseudo, jour, time_of_day_seconds, composant, contexte_general, evenement
		FROM logs.events
		ORDER BY pseudo, jour, time_of_day_seconds
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []contracts.Event
	for rows.Next() {
		var e contracts.Event
		var seconds int64
		if err := rows.Scan(&e.SubjectID, &e.Day, &seconds, &e.Component, &e.GeneralContext, &e.EventType); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		e.TimeOfDay = time.Duration(seconds) * time.Second
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

// SaveBatch bulk-inserts events with COPY.
func (r *EventRepository) SaveBatch(ctx context.Context, events []contracts.Event) error {
	rows := make([][]interface{}, len(events))
	for i, e := range events {
		rows[i] = []interface{}{
			e.SubjectID,
			e.Day,
			int64(e.TimeOfDay / time.Second),
			e.Component,
			e.GeneralContext,
			e.EventType,
		}
	}

	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"logs", "events"},
		[]string{"pseudo", "jour", "time_of_day_seconds", "composant", "contexte_general", "evenement"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy events: %w", err)
	}
	return nil
}
