package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateKeys(t *testing.T) {
	_, err := New([]string{"a", "b", "a"})
	require.Error(t, err)
}

func TestAddNumericFillPolicies(t *testing.T) {
	f, err := New([]string{"a", "b", "c"})
	require.NoError(t, err)

	require.NoError(t, f.AddNumeric("counts", FillZero, map[string]float64{"a": 2}))
	require.NoError(t, f.AddNumeric("rate", FillNull, map[string]float64{"a": 0.5}))

	counts, err := f.Column("counts")
	require.NoError(t, err)

	v, ok := counts.Num(0)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	// FillZero: missing keys become a valid 0
	v, ok = counts.Num(1)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	// FillNull: missing keys stay missing
	rate, err := f.Column("rate")
	require.NoError(t, err)
	_, ok = rate.Num(2)
	assert.False(t, ok)
}

func TestAddColumnRejectsDuplicateName(t *testing.T) {
	f, _ := New([]string{"a"})
	require.NoError(t, f.AddNumeric("x", FillZero, nil))
	require.Error(t, f.AddNumeric("x", FillZero, nil))
}

func TestLeftJoinPreservesRowSet(t *testing.T) {
	left, _ := New([]string{"a", "b", "c"})
	require.NoError(t, left.AddNumeric("base", FillZero, map[string]float64{"a": 1, "b": 2, "c": 3}))

	// Right frame only knows two of the three keys, in a different order.
	right, _ := New([]string{"c", "a"})
	require.NoError(t, right.AddNumeric("cnt", FillZero, map[string]float64{"c": 7, "a": 5}))
	require.NoError(t, right.AddNumeric("derived", FillNull, map[string]float64{"c": 0.7}))
	require.NoError(t, right.AddCategorical("top", map[string]string{"a": "forum", "c": "quiz"}))

	require.NoError(t, left.LeftJoin(right))

	assert.Equal(t, []string{"a", "b", "c"}, left.Keys())
	assert.Equal(t, 4, left.NumCols())

	cnt, _ := left.Column("cnt")
	v, ok := cnt.Num(0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	// "b" is unknown to the right side: count column fills 0
	v, ok = cnt.Num(1)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	// but the derived column stays null
	derived, _ := left.Column("derived")
	_, ok = derived.Num(1)
	assert.False(t, ok)
	_, ok = derived.Num(0)
	assert.False(t, ok) // present key, explicitly null on the right

	top, _ := left.Column("top")
	s, ok := top.Cat(2)
	assert.True(t, ok)
	assert.Equal(t, "quiz", s)
	_, ok = top.Cat(1)
	assert.False(t, ok)
}

func TestSelectRowsAndDropColumns(t *testing.T) {
	f, _ := New([]string{"a", "b", "c"})
	require.NoError(t, f.AddNumeric("x", FillZero, map[string]float64{"a": 1, "b": 2, "c": 3}))
	require.NoError(t, f.AddCategorical("t", map[string]string{"b": "y"}))

	sub, err := f.SelectRows([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sub.Keys())
	v, ok, err := sub.NumAt(0, "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	dropped, err := f.DropColumns("t")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, dropped.ColumnNames())

	_, err = f.DropColumns("nope")
	var unk *UnknownColumnError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "nope", unk.Name)
}

func TestFloat64sMarksNullsAsNaN(t *testing.T) {
	f, _ := New([]string{"a", "b"})
	require.NoError(t, f.AddNumeric("r", FillNull, map[string]float64{"a": 1.5}))

	c, _ := f.Column("r")
	vals := c.Float64s()
	assert.Equal(t, 1.5, vals[0])
	assert.True(t, vals[1] != vals[1], "missing value should be NaN")
}
