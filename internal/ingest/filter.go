package ingest

import "github.com/edulens/edulens/internal/contracts"

// FilterEvents keeps only the events of subjects that have a grade.
// Order is preserved.
func FilterEvents(events []contracts.Event, labels []contracts.Label) []contracts.Event {
	graded := make(map[string]bool, len(labels))
	for _, l := range labels {
		graded[l.SubjectID] = true
	}

	out := events[:0:0]
	for _, e := range events {
		if graded[e.SubjectID] {
			out = append(out, e)
		}
	}
	return out
}

// FilterLabels keeps only the labels of subjects that appear in the
// event log. Order is preserved.
func FilterLabels(labels []contracts.Label, events []contracts.Event) []contracts.Label {
	active := make(map[string]bool, len(events))
	for _, e := range events {
		active[e.SubjectID] = true
	}

	out := labels[:0:0]
	for _, l := range labels {
		if active[l.SubjectID] {
			out = append(out, l)
		}
	}
	return out
}
