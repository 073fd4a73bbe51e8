package features

import (
	"context"
	"fmt"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

// Composer assembles the wide feature table: one row per subject with at
// least one event, one column per aggregated statistic.
type Composer struct {
	activity    *ActivityCalculator
	temporal    *TemporalCalculator
	clock       *ClockCalculator
	categorical *CategoricalCalculator

	logger *logger.Logger
}

// NewComposer creates a new feature composer.
func NewComposer(
	activity *ActivityCalculator,
	temporal *TemporalCalculator,
	clock *ClockCalculator,
	categorical *CategoricalCalculator,
	log *logger.Logger,
) *Composer {
	return &Composer{
		activity:    activity,
		temporal:    temporal,
		clock:       clock,
		categorical: categorical,
		logger:      log,
	}
}

// Compose runs every aggregator and left-joins the results onto the
// nb_actions subject universe. The join order fixes the column order; it
// does not affect any value. The output has exactly one row per subject
// appearing in the event table.
func (c *Composer) Compose(ctx context.Context, events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	c.logger.WithFields(map[string]interface{}{
		"events": len(events),
	}).Info("Composing feature table")

	wide, err := c.activity.NbActions(events)
	if err != nil {
		return nil, fmt.Errorf("nb_actions: %w", err)
	}

	aggregates := []struct {
		name string
		fn   func([]contracts.Event) (*frame.Frame, error)
	}{
		{"mean_actions_per_day", c.activity.MeanActionsPerDay},
		{"max_actions_per_day", c.activity.MaxActionsPerDay},
		{"active_days", c.temporal.ActiveDays},
		{"variability", c.activity.Variability},
		{"day_span", c.temporal.DaySpan},
		{"constancy", c.temporal.Constancy},
		{"mean_daily_window", c.clock.MeanDailyWindow},
		{"night_share", c.clock.NightShare},
		{"morning_share", c.clock.MorningShare},
		{"afternoon_share", c.clock.AfternoonShare},
		{"evening_share", c.clock.EveningShare},
		{"weekend_share", c.temporal.WeekendShare},
		{"distinct_contexts", c.categorical.DistinctContexts},
		{"distinct_components", c.categorical.DistinctComponents},
		{"context_crosstab", c.categorical.ContextCrossTab},
		{"top_context", c.categorical.TopContext},
		{"component_crosstab", c.categorical.ComponentCrossTab},
		{"top_component", c.categorical.TopComponent},
		{"event_type_crosstab", c.categorical.EventTypeCrossTab},
		{"top_event_type", c.categorical.TopEventType},
	}

	for _, agg := range aggregates {
		part, err := agg.fn(events)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", agg.name, err)
		}
		if err := wide.LeftJoin(part); err != nil {
			return nil, fmt.Errorf("join %s: %w", agg.name, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	if wide.NumRows() != len(subjects(events)) {
		return nil, fmt.Errorf("composed table has %d rows for %d subjects", wide.NumRows(), len(subjects(events)))
	}

	c.logger.WithFields(map[string]interface{}{
		"subjects": wide.NumRows(),
		"columns":  wide.NumCols(),
	}).Info("Feature table composed")

	return wide, nil
}
