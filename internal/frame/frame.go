// Package frame implements a small column-oriented table keyed by subject
// ID. It is the carrier for aggregated features: every column is either
// numeric (with a validity mask, so a missing statistic stays missing) or
// categorical, and frames compose by left join over a canonical key set.
package frame

import (
	"fmt"
	"math"
)

// Kind discriminates column value types.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

// Fill is the policy applied when a left join finds no row for a key.
// Count-type columns fill with zero; derived/rate columns stay null.
type Fill int

const (
	FillNull Fill = iota
	FillZero
)

// UnknownColumnError reports access to a column that does not exist.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Name)
}

// Column holds one named column of values aligned with the frame's keys.
type Column struct {
	Name string
	Kind Kind
	Fill Fill

	nums  []float64
	cats  []string
	valid []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.valid)
}

// IsValid reports whether row i holds a value.
func (c *Column) IsValid(i int) bool {
	return c.valid[i]
}

// Num returns the numeric value at row i and whether it is present.
func (c *Column) Num(i int) (float64, bool) {
	if c.Kind != Numeric || !c.valid[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Cat returns the categorical value at row i and whether it is present.
func (c *Column) Cat(i int) (string, bool) {
	if c.Kind != Categorical || !c.valid[i] {
		return "", false
	}
	return c.cats[i], true
}

// Float64s returns a copy of the numeric values. Invalid rows are NaN.
func (c *Column) Float64s() []float64 {
	out := make([]float64, len(c.valid))
	for i := range c.valid {
		if c.Kind == Numeric && c.valid[i] {
			out[i] = c.nums[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Validity returns a copy of the validity mask.
func (c *Column) Validity() []bool {
	out := make([]bool, len(c.valid))
	copy(out, c.valid)
	return out
}

func (c *Column) clone() *Column {
	cc := &Column{Name: c.Name, Kind: c.Kind, Fill: c.Fill}
	cc.valid = append([]bool(nil), c.valid...)
	if c.nums != nil {
		cc.nums = append([]float64(nil), c.nums...)
	}
	if c.cats != nil {
		cc.cats = append([]string(nil), c.cats...)
	}
	return cc
}

// Frame is a table with one row per key. Column order is the order of
// insertion, key order is the order given at construction; both are
// deterministic.
type Frame struct {
	keys     []string
	rowIndex map[string]int
	cols     []*Column
	colIndex map[string]int
}

// New creates a frame over the given key set. Keys must be unique.
func New(keys []string) (*Frame, error) {
	f := &Frame{
		keys:     append([]string(nil), keys...),
		rowIndex: make(map[string]int, len(keys)),
		colIndex: make(map[string]int),
	}
	for i, k := range keys {
		if _, dup := f.rowIndex[k]; dup {
			return nil, fmt.Errorf("duplicate key %q", k)
		}
		f.rowIndex[k] = i
	}
	return f, nil
}

// Keys returns a copy of the frame's key order.
func (f *Frame) Keys() []string {
	return append([]string(nil), f.keys...)
}

// HasKey reports whether the frame has a row for key.
func (f *Frame) HasKey(key string) bool {
	_, ok := f.rowIndex[key]
	return ok
}

// Row returns the row index for key.
func (f *Frame) Row(key string) (int, bool) {
	i, ok := f.rowIndex[key]
	return i, ok
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	return len(f.keys)
}

// NumCols returns the column count.
func (f *Frame) NumCols() int {
	return len(f.cols)
}

// ColumnNames returns the column names in frame order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the frame has a column with the given name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.colIndex[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.colIndex[name]
	if !ok {
		return nil, &UnknownColumnError{Name: name}
	}
	return f.cols[i], nil
}

// Columns returns all columns in frame order.
func (f *Frame) Columns() []*Column {
	return append([]*Column(nil), f.cols...)
}

func (f *Frame) addColumn(c *Column) error {
	if _, dup := f.colIndex[c.Name]; dup {
		return fmt.Errorf("column %q already exists", c.Name)
	}
	f.colIndex[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// AddNumeric adds a numeric column from a key→value mapping. Keys absent
// from values get the fill policy: FillZero stores a valid 0, FillNull
// stores a missing value.
func (f *Frame) AddNumeric(name string, fill Fill, values map[string]float64) error {
	c := &Column{
		Name:  name,
		Kind:  Numeric,
		Fill:  fill,
		nums:  make([]float64, len(f.keys)),
		valid: make([]bool, len(f.keys)),
	}
	for i, k := range f.keys {
		if v, ok := values[k]; ok {
			c.nums[i] = v
			c.valid[i] = true
		} else if fill == FillZero {
			c.valid[i] = true
		}
	}
	return f.addColumn(c)
}

// AddNumericNullable adds a numeric column where individual values can be
// missing even for present keys (e.g. an undefined standard deviation).
func (f *Frame) AddNumericNullable(name string, fill Fill, values map[string]float64, present map[string]bool) error {
	c := &Column{
		Name:  name,
		Kind:  Numeric,
		Fill:  fill,
		nums:  make([]float64, len(f.keys)),
		valid: make([]bool, len(f.keys)),
	}
	for i, k := range f.keys {
		if ok, seen := present[k]; seen {
			if ok {
				c.nums[i] = values[k]
				c.valid[i] = true
			}
			// seen but not ok: explicit null, fill does not apply
		} else if fill == FillZero {
			c.valid[i] = true
		}
	}
	return f.addColumn(c)
}

// AddCategorical adds a categorical column from a key→value mapping. Keys
// absent from values are null.
func (f *Frame) AddCategorical(name string, values map[string]string) error {
	c := &Column{
		Name:  name,
		Kind:  Categorical,
		Fill:  FillNull,
		cats:  make([]string, len(f.keys)),
		valid: make([]bool, len(f.keys)),
	}
	for i, k := range f.keys {
		if v, ok := values[k]; ok {
			c.cats[i] = v
			c.valid[i] = true
		}
	}
	return f.addColumn(c)
}

// LeftJoin appends every column of other to f, aligned on f's keys. Rows
// of f with no counterpart in other get each column's fill policy. The row
// set of f never changes: no key is duplicated or dropped.
func (f *Frame) LeftJoin(other *Frame) error {
	for _, oc := range other.cols {
		c := &Column{
			Name:  oc.Name,
			Kind:  oc.Kind,
			Fill:  oc.Fill,
			valid: make([]bool, len(f.keys)),
		}
		if oc.Kind == Numeric {
			c.nums = make([]float64, len(f.keys))
		} else {
			c.cats = make([]string, len(f.keys))
		}

		for i, k := range f.keys {
			j, ok := other.rowIndex[k]
			if ok && oc.valid[j] {
				c.valid[i] = true
				if oc.Kind == Numeric {
					c.nums[i] = oc.nums[j]
				} else {
					c.cats[i] = oc.cats[j]
				}
				continue
			}
			if oc.Kind == Numeric && oc.Fill == FillZero && !ok {
				// Key unknown to the right side: count columns fill 0.
				// A key that is present but explicitly null stays null.
				c.valid[i] = true
			}
		}

		if err := f.addColumn(c); err != nil {
			return err
		}
	}
	return nil
}

// SelectRows returns a new frame containing the rows at the given indices,
// in the given order.
func (f *Frame) SelectRows(indices []int) (*Frame, error) {
	keys := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(f.keys) {
			return nil, fmt.Errorf("row index %d out of range", idx)
		}
		keys[i] = f.keys[idx]
	}

	out, err := New(keys)
	if err != nil {
		return nil, err
	}
	for _, c := range f.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind, Fill: c.Fill, valid: make([]bool, len(indices))}
		if c.Kind == Numeric {
			nc.nums = make([]float64, len(indices))
		} else {
			nc.cats = make([]string, len(indices))
		}
		for i, idx := range indices {
			nc.valid[i] = c.valid[idx]
			if c.Kind == Numeric {
				nc.nums[i] = c.nums[idx]
			} else {
				nc.cats[i] = c.cats[idx]
			}
		}
		if err := out.addColumn(nc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DropColumns returns a new frame without the named columns. Unknown names
// are an error.
func (f *Frame) DropColumns(names ...string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := f.colIndex[n]; !ok {
			return nil, &UnknownColumnError{Name: n}
		}
		drop[n] = true
	}

	out, err := New(f.keys)
	if err != nil {
		return nil, err
	}
	for _, c := range f.cols {
		if drop[c.Name] {
			continue
		}
		if err := out.addColumn(c.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out, _ := New(f.keys)
	for _, c := range f.cols {
		_ = out.addColumn(c.clone())
	}
	return out
}

// NumAt returns the numeric value at (row, column).
func (f *Frame) NumAt(row int, name string) (float64, bool, error) {
	c, err := f.Column(name)
	if err != nil {
		return 0, false, err
	}
	v, ok := c.Num(row)
	return v, ok, nil
}

// CatAt returns the categorical value at (row, column).
func (f *Frame) CatAt(row int, name string) (string, bool, error) {
	c, err := f.Column(name)
	if err != nil {
		return "", false, err
	}
	v, ok := c.Cat(row)
	return v, ok, nil
}
