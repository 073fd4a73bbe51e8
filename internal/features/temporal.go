package features

import (
	"time"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

// TemporalCalculator computes calendar-span and regularity statistics.
type TemporalCalculator struct {
	logger *logger.Logger
}

// NewTemporalCalculator creates a new temporal calculator.
func NewTemporalCalculator(log *logger.Logger) *TemporalCalculator {
	return &TemporalCalculator{logger: log}
}

// ActiveDays counts the distinct days on which each subject acted.
func (c *TemporalCalculator) ActiveDays(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	values := make(map[string]float64)
	for subject, days := range dailyCounts(events) {
		values[subject] = float64(len(days))
	}

	return singleColumn(events, ColActiveDays, frame.FillZero, values)
}

// DaySpan is the number of whole days between each subject's first and
// last active day.
func (c *TemporalCalculator) DaySpan(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	values := make(map[string]float64)
	for subject, span := range daySpans(events) {
		values[subject] = span
	}

	return singleColumn(events, ColDaySpan, frame.FillNull, values)
}

// Constancy divides the active-day count by the day span. A span of
// exactly 0 is replaced by 1 before dividing. That floor is deliberate: a
// single-day subject gets its active-day count back, not a division error.
func (c *TemporalCalculator) Constancy(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	counts := dailyCounts(events)
	spans := daySpans(events)

	values := make(map[string]float64)
	for subject, days := range counts {
		span := spans[subject]
		if span == 0 {
			span = 1
		}
		values[subject] = float64(len(days)) / span
	}

	return singleColumn(events, ColConstancy, frame.FillNull, values)
}

// WeekendShare is the fraction of each subject's events that fall on
// Saturday or Sunday.
func (c *TemporalCalculator) WeekendShare(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	total := make(map[string]float64)
	weekend := make(map[string]float64)
	for _, e := range events {
		total[e.SubjectID]++
		if isWeekend(e.Day) {
			weekend[e.SubjectID]++
		}
	}

	values := make(map[string]float64)
	for subject, n := range total {
		values[subject] = weekend[subject] / n
	}

	return singleColumn(events, ColWeekendShare, frame.FillNull, values)
}

// daySpans returns max(day) − min(day) in whole days per subject.
func daySpans(events []contracts.Event) map[string]float64 {
	first := make(map[string]time.Time)
	last := make(map[string]time.Time)
	for _, e := range events {
		if f, ok := first[e.SubjectID]; !ok || e.Day.Before(f) {
			first[e.SubjectID] = e.Day
		}
		if l, ok := last[e.SubjectID]; !ok || e.Day.After(l) {
			last[e.SubjectID] = e.Day
		}
	}

	out := make(map[string]float64, len(first))
	for subject := range first {
		out[subject] = last[subject].Sub(first[subject]).Hours() / 24
	}
	return out
}

// isWeekend uses the Monday=0 … Sunday=6 convention: weekday index 5 or 6.
func isWeekend(day time.Time) bool {
	wd := (int(day.Weekday()) + 6) % 7
	return wd >= 5
}
