package features

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

// ClockCalculator computes intraday statistics from the time-of-day field.
type ClockCalculator struct {
	logger *logger.Logger
}

// NewClockCalculator creates a new clock calculator.
func NewClockCalculator(log *logger.Logger) *ClockCalculator {
	return &ClockCalculator{logger: log}
}

// MeanDailyWindow is the average, over a subject's active days, of the
// time range between the day's first and last event, in minutes. A day
// with a single event contributes a window of 0.
func (c *ClockCalculator) MeanDailyWindow(events []contracts.Event) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	type window struct {
		min, max time.Duration
	}
	windows := make(map[string]map[string]*window)
	for _, e := range events {
		day := contracts.DayKey(e.Day)
		if windows[e.SubjectID] == nil {
			windows[e.SubjectID] = make(map[string]*window)
		}
		w, ok := windows[e.SubjectID][day]
		if !ok {
			windows[e.SubjectID][day] = &window{min: e.TimeOfDay, max: e.TimeOfDay}
			continue
		}
		if e.TimeOfDay < w.min {
			w.min = e.TimeOfDay
		}
		if e.TimeOfDay > w.max {
			w.max = e.TimeOfDay
		}
	}

	values := make(map[string]float64)
	for subject, days := range windows {
		spans := make([]float64, 0, len(days))
		for _, w := range days {
			spans = append(spans, (w.max - w.min).Minutes())
		}
		values[subject] = stat.Mean(spans, nil)
	}

	return singleColumn(events, ColMeanWindowMin, frame.FillNull, values)
}

// Time-of-day buckets. Assignment uses the hour component only, so the
// four buckets are exhaustive and mutually exclusive and the four shares
// of any subject sum to 1.

// NightShare is the fraction of events in [22:00, 07:00).
func (c *ClockCalculator) NightShare(events []contracts.Event) (*frame.Frame, error) {
	return c.hourShare(events, ColNightShare, func(h int) bool { return h < 7 || h >= 22 })
}

// MorningShare is the fraction of events in [07:00, 13:00).
func (c *ClockCalculator) MorningShare(events []contracts.Event) (*frame.Frame, error) {
	return c.hourShare(events, ColMorningShare, func(h int) bool { return h >= 7 && h < 13 })
}

// AfternoonShare is the fraction of events in [13:00, 18:00).
func (c *ClockCalculator) AfternoonShare(events []contracts.Event) (*frame.Frame, error) {
	return c.hourShare(events, ColAfternoon, func(h int) bool { return h >= 13 && h < 18 })
}

// EveningShare is the fraction of events in [18:00, 22:00).
func (c *ClockCalculator) EveningShare(events []contracts.Event) (*frame.Frame, error) {
	return c.hourShare(events, ColEveningShare, func(h int) bool { return h >= 18 && h < 22 })
}

func (c *ClockCalculator) hourShare(events []contracts.Event, name string, in func(hour int) bool) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	total := make(map[string]float64)
	hits := make(map[string]float64)
	for _, e := range events {
		total[e.SubjectID]++
		if in(int(e.TimeOfDay.Hours())) {
			hits[e.SubjectID]++
		}
	}

	values := make(map[string]float64)
	for subject, n := range total {
		values[subject] = hits[subject] / n
	}

	return singleColumn(events, name, frame.FillNull, values)
}
