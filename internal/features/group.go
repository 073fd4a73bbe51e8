package features

import (
	"sort"

	"github.com/edulens/edulens/internal/contracts"
)

// Grouping helpers shared by the calculators. Partition the event table by
// key, reduce per partition, return an ordered mapping — the subject order
// is always lexicographic so reruns are identical.

// subjects returns the sorted distinct subject IDs in the event table.
func subjects(events []contracts.Event) []string {
	seen := make(map[string]bool)
	for _, e := range events {
		seen[e.SubjectID] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// bySubject partitions events by subject ID.
func bySubject(events []contracts.Event) map[string][]contracts.Event {
	out := make(map[string][]contracts.Event)
	for _, e := range events {
		out[e.SubjectID] = append(out[e.SubjectID], e)
	}
	return out
}

// dailyCounts returns, per subject, the event count of each active day.
func dailyCounts(events []contracts.Event) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, e := range events {
		day := contracts.DayKey(e.Day)
		if out[e.SubjectID] == nil {
			out[e.SubjectID] = make(map[string]int)
		}
		out[e.SubjectID][day]++
	}
	return out
}

// sortedDayValues returns the per-day counts of one subject as a slice
// ordered by day.
func sortedDayValues(days map[string]int) []float64 {
	keys := make([]string, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Strings(keys)
	out := make([]float64, len(keys))
	for i, d := range keys {
		out[i] = float64(days[d])
	}
	return out
}
