package features

import (
	"sort"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

// CategoricalCalculator computes breadth, distribution and mode statistics
// over the three categorical dimensions of the event log.
type CategoricalCalculator struct {
	logger *logger.Logger
}

// NewCategoricalCalculator creates a new categorical calculator.
func NewCategoricalCalculator(log *logger.Logger) *CategoricalCalculator {
	return &CategoricalCalculator{logger: log}
}

// DistinctComponents counts each subject's distinct component values.
func (c *CategoricalCalculator) DistinctComponents(events []contracts.Event) (*frame.Frame, error) {
	return c.distinct(events, ColNbComponents, component)
}

// DistinctContexts counts each subject's distinct general-context values.
func (c *CategoricalCalculator) DistinctContexts(events []contracts.Event) (*frame.Frame, error) {
	return c.distinct(events, ColNbContexts, generalContext)
}

// ComponentCrossTab builds one count column per observed component value.
func (c *CategoricalCalculator) ComponentCrossTab(events []contracts.Event) (*frame.Frame, error) {
	return c.crossTab(events, PrefixComponent, component)
}

// ContextCrossTab builds one count column per observed context value.
func (c *CategoricalCalculator) ContextCrossTab(events []contracts.Event) (*frame.Frame, error) {
	return c.crossTab(events, PrefixContext, generalContext)
}

// EventTypeCrossTab builds one count column per observed event type.
func (c *CategoricalCalculator) EventTypeCrossTab(events []contracts.Event) (*frame.Frame, error) {
	return c.crossTab(events, PrefixEventType, eventType)
}

// TopComponent is each subject's most used component.
func (c *CategoricalCalculator) TopComponent(events []contracts.Event) (*frame.Frame, error) {
	return c.mode(events, ColTopComponent, component)
}

// TopContext is each subject's most used general context.
func (c *CategoricalCalculator) TopContext(events []contracts.Event) (*frame.Frame, error) {
	return c.mode(events, ColTopContext, generalContext)
}

// TopEventType is each subject's most frequent event type.
func (c *CategoricalCalculator) TopEventType(events []contracts.Event) (*frame.Frame, error) {
	return c.mode(events, ColTopEventType, eventType)
}

func component(e contracts.Event) string      { return e.Component }
func generalContext(e contracts.Event) string { return e.GeneralContext }
func eventType(e contracts.Event) string      { return e.EventType }

func (c *CategoricalCalculator) distinct(events []contracts.Event, name string, dim func(contracts.Event) string) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	seen := make(map[string]map[string]bool)
	for _, e := range events {
		if seen[e.SubjectID] == nil {
			seen[e.SubjectID] = make(map[string]bool)
		}
		seen[e.SubjectID][dim(e)] = true
	}

	values := make(map[string]float64)
	for subject, vals := range seen {
		values[subject] = float64(len(vals))
	}

	return singleColumn(events, name, frame.FillZero, values)
}

// crossTab counts, per subject, the events of every observed value of one
// categorical dimension. Columns are named <prefix>_<value> and ordered by
// value; count columns fill 0 for subjects that never used a value.
func (c *CategoricalCalculator) crossTab(events []contracts.Event, prefix string, dim func(contracts.Event) string) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	counts := make(map[string]map[string]float64) // value -> subject -> n
	for _, e := range events {
		v := dim(e)
		if counts[v] == nil {
			counts[v] = make(map[string]float64)
		}
		counts[v][e.SubjectID]++
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	f, err := frame.New(subjects(events))
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := f.AddNumeric(prefix+"_"+v, frame.FillZero, counts[v]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// mode picks, per subject, the dimension value with the highest event
// count. Ties break to the lexicographically smallest value so the output
// is deterministic.
func (c *CategoricalCalculator) mode(events []contracts.Event, name string, dim func(contracts.Event) string) (*frame.Frame, error) {
	if len(events) == 0 {
		return nil, contracts.ErrEmptyEvents
	}

	counts := make(map[string]map[string]int) // subject -> value -> n
	for _, e := range events {
		if counts[e.SubjectID] == nil {
			counts[e.SubjectID] = make(map[string]int)
		}
		counts[e.SubjectID][dim(e)]++
	}

	values := make(map[string]string)
	for subject, byValue := range counts {
		vals := make([]string, 0, len(byValue))
		for v := range byValue {
			vals = append(vals, v)
		}
		sort.Strings(vals)

		best := vals[0]
		for _, v := range vals[1:] {
			if byValue[v] > byValue[best] {
				best = v
			}
		}
		values[subject] = best
	}

	f, err := frame.New(subjects(events))
	if err != nil {
		return nil, err
	}
	if err := f.AddCategorical(name, values); err != nil {
		return nil, err
	}
	return f, nil
}
