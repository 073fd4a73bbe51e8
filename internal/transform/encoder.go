package transform

import (
	"fmt"
	"sort"

	"github.com/edulens/edulens/internal/frame"
)

// FittedEncoder is the immutable one-hot vocabulary captured at fit time:
// for every categorical column, the sorted distinct values observed. The
// snapshot is what makes a later dataset encodable without inventing new
// columns or dropping ones its rows happen to lack.
type FittedEncoder struct {
	columns []string
	vocab   map[string][]string
}

// Columns returns the categorical column names captured at fit time.
func (e *FittedEncoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Vocabulary returns the fitted values of one categorical column.
func (e *FittedEncoder) Vocabulary(column string) []string {
	return append([]string(nil), e.vocab[column]...)
}

// FitEncoder captures the one-hot vocabulary of every categorical column.
func FitEncoder(f *frame.Frame) *FittedEncoder {
	enc := &FittedEncoder{vocab: make(map[string][]string)}
	for _, c := range f.Columns() {
		if c.Kind != frame.Categorical {
			continue
		}
		seen := make(map[string]bool)
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Cat(i); ok {
				seen[v] = true
			}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)

		enc.columns = append(enc.columns, c.Name)
		enc.vocab[c.Name] = values
	}
	return enc
}

// Apply replaces every fitted categorical column with one indicator
// column per fitted value, named <column>_<value>. Numeric columns pass
// through first, in their original order, then the indicator blocks. A
// value unseen at fit time — or a missing value — encodes as an all-zero
// indicator row; it is never rejected and never grows the schema.
func (e *FittedEncoder) Apply(f *frame.Frame) (*frame.Frame, error) {
	for _, name := range e.columns {
		if !f.HasColumn(name) {
			return nil, fmt.Errorf("encode: fitted column %q not in input", name)
		}
	}

	out, err := frame.New(f.Keys())
	if err != nil {
		return nil, err
	}

	for _, c := range f.Columns() {
		if c.Kind != frame.Numeric {
			continue
		}
		if err := copyNumeric(out, c); err != nil {
			return nil, err
		}
	}

	for _, name := range e.columns {
		src, err := f.Column(name)
		if err != nil {
			return nil, fmt.Errorf("encode: %w", err)
		}
		for _, value := range e.vocab[name] {
			indicator := make(map[string]float64, f.NumRows())
			for i, key := range f.Keys() {
				if v, ok := src.Cat(i); ok && v == value {
					indicator[key] = 1
				}
			}
			if err := out.AddNumeric(name+"_"+value, frame.FillZero, indicator); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func copyNumeric(out *frame.Frame, c *frame.Column) error {
	values := make(map[string]float64, c.Len())
	present := make(map[string]bool, c.Len())
	for i, key := range out.Keys() {
		if v, ok := c.Num(i); ok {
			values[key] = v
			present[key] = true
		} else {
			present[key] = false
		}
	}
	return out.AddNumericNullable(c.Name, c.Fill, values, present)
}
