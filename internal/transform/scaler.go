package transform

import (
	"fmt"

	"github.com/edulens/edulens/internal/frame"
)

type scaleRange struct {
	min, max float64
	seen     bool
}

// FittedScaler holds the per-column min and max observed at fit time.
// Applying it to later data reuses those bounds, so out-of-range values
// map outside [0, 1] rather than silently re-stretching the scale.
type FittedScaler struct {
	columns []string
	ranges  map[string]scaleRange
}

// Columns returns the numeric column names captured at fit time.
func (s *FittedScaler) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Range returns the fitted min and max of one column.
func (s *FittedScaler) Range(column string) (min, max float64, ok bool) {
	r, found := s.ranges[column]
	return r.min, r.max, found && r.seen
}

// FitScaler records the min and max of every numeric column, ignoring
// missing values. A column with no values at all is remembered as empty
// and passes through untouched at apply time.
func FitScaler(f *frame.Frame) (*FittedScaler, error) {
	s := &FittedScaler{ranges: make(map[string]scaleRange)}
	for _, c := range f.Columns() {
		if c.Kind != frame.Numeric {
			return nil, fmt.Errorf("scale: column %q is not numeric", c.Name)
		}
		var r scaleRange
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Num(i)
			if !ok {
				continue
			}
			if !r.seen || v < r.min {
				r.min = v
			}
			if !r.seen || v > r.max {
				r.max = v
			}
			r.seen = true
		}
		s.columns = append(s.columns, c.Name)
		s.ranges[c.Name] = r
	}
	return s, nil
}

// Apply rescales every fitted column to (v-min)/(max-min). A constant
// column maps to 0 everywhere, missing values stay missing, and values
// beyond the fitted range are not clipped.
func (s *FittedScaler) Apply(f *frame.Frame) (*frame.Frame, error) {
	out, err := frame.New(f.Keys())
	if err != nil {
		return nil, err
	}

	for _, name := range s.columns {
		c, err := f.Column(name)
		if err != nil {
			return nil, fmt.Errorf("scale: %w", err)
		}
		r := s.ranges[name]

		values := make(map[string]float64, c.Len())
		present := make(map[string]bool, c.Len())
		for i, key := range f.Keys() {
			v, ok := c.Num(i)
			present[key] = ok
			if !ok {
				continue
			}
			switch {
			case !r.seen:
				values[key] = v
			case r.max == r.min:
				values[key] = 0
			default:
				values[key] = (v - r.min) / (r.max - r.min)
			}
		}
		if err := out.AddNumericNullable(name, c.Fill, values, present); err != nil {
			return nil, err
		}
	}

	return out, nil
}
