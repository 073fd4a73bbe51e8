package contracts

import "time"

// Event is one row of the normalized activity log: a single action by a
// subject, with its calendar day, clock time and categorical dimensions.
// SubjectID is never empty; Day is truncated to midnight UTC and TimeOfDay
// is the offset from midnight, so the pair is jointly orderable.
type Event struct {
	SubjectID      string
	Day            time.Time
	TimeOfDay      time.Duration
	Component      string
	GeneralContext string
	EventType      string
}

// Label associates a subject with its numeric target value.
type Label struct {
	SubjectID string
	Value     float64
}

// DayKey formats a calendar day for grouping.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
