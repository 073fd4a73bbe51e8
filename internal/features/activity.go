package features

import (
	"gonum.org/v1/gonum/stat"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

// ActivityCalculator computes volume and daily-rate statistics.
type ActivityCalculator struct {
	logger *logger.Logger
}

// NewActivityCalculator creates a new activity calculator.
func NewActivityCalculator(log *logger.Logger) *ActivityCalculator {
	return &ActivityCalculator{logger: log}
}

// NbActions counts the events of each subject. Its key set is the
// canonical subject universe the composer builds on.
func (c *ActivityCalculator) NbActions(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	counts := make(map[string]float64)
	for _, e := range events {
		counts[e.SubjectID]++
	}

	f, err := frame.New(subjects(events))
	if err != nil {
		return nil, err
	}
	if err := f.AddNumeric(ColNbActions, frame.FillZero, counts); err != nil {
		return nil, err
	}
	return f, nil
}

// MeanActionsPerDay averages the per-day event count across each
// subject's active days.
func (c *ActivityCalculator) MeanActionsPerDay(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	values := make(map[string]float64)
	for subject, days := range dailyCounts(events) {
		values[subject] = stat.Mean(sortedDayValues(days), nil)
	}

	return singleColumn(events, ColMeanPerDay, frame.FillNull, values)
}

// MaxActionsPerDay takes the busiest day of each subject.
func (c *ActivityCalculator) MaxActionsPerDay(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	values := make(map[string]float64)
	for subject, days := range dailyCounts(events) {
		max := 0.0
		for _, n := range days {
			if float64(n) > max {
				max = float64(n)
			}
		}
		values[subject] = max
	}

	return singleColumn(events, ColMaxPerDay, frame.FillNull, values)
}

// Variability is the sample standard deviation of the per-day event count.
// A subject active on a single day has no defined deviation; the value is
// kept missing, never coerced to zero.
func (c *ActivityCalculator) Variability(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	values := make(map[string]float64)
	present := make(map[string]bool)
	for subject, days := range dailyCounts(events) {
		if len(days) < 2 {
			present[subject] = false
			continue
		}
		values[subject] = stat.StdDev(sortedDayValues(days), nil)
		present[subject] = true
	}

	f, err := frame.New(subjects(events))
	if err != nil {
		return nil, err
	}
	if err := f.AddNumericNullable(ColStdPerDay, frame.FillNull, values, present); err != nil {
		return nil, err
	}
	return f, nil
}

// singleColumn builds a one-column frame over the event table's subjects.
func singleColumn(events []contracts.Event, name string, fill frame.Fill, values map[string]float64) (*frame.Frame, error) {
	f, err := frame.New(subjects(events))
	if err != nil {
		return nil, err
	}
	if err := f.AddNumeric(name, fill, values); err != nil {
		return nil, err
	}
	return f, nil
}
