package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

func numFrame(t *testing.T, keys []string, cols map[string][]float64, order []string) *frame.Frame {
	t.Helper()

	f, err := frame.New(keys)
	require.NoError(t, err)
	for _, name := range order {
		vals := make(map[string]float64, len(keys))
		for i, k := range keys {
			vals[k] = cols[name][i]
		}
		require.NoError(t, f.AddNumeric(name, frame.FillZero, vals))
	}
	return f
}

func TestPrunerDropsLaterOfPerfectPair(t *testing.T) {
	keys := []string{"a", "b", "c"}
	f := numFrame(t, keys, map[string][]float64{
		"x":      {1, 2, 3},
		"double": {2, 4, 6}, // exact multiple of x
		"other":  {5, 1, 4},
	}, []string{"x", "double", "other"})

	pruner, err := FitPruner(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"double"}, pruner.Dropped())

	out, err := pruner.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "other"}, out.ColumnNames())
}

func TestPrunerDropsAntiCorrelated(t *testing.T) {
	keys := []string{"a", "b", "c"}
	f := numFrame(t, keys, map[string][]float64{
		"x":   {1, 2, 3},
		"neg": {3, 2, 1},
	}, []string{"x", "neg"})

	pruner, err := FitPruner(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"neg"}, pruner.Dropped())
}

func TestPrunerKeepsImperfectCorrelation(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	f := numFrame(t, keys, map[string][]float64{
		"x":      {1, 2, 3, 4},
		"nearly": {1, 2, 3, 5}, // strongly but not perfectly correlated
	}, []string{"x", "nearly"})

	pruner, err := FitPruner(f)
	require.NoError(t, err)
	assert.Empty(t, pruner.Dropped())
}

func TestPrunerIgnoresIncompleteRows(t *testing.T) {
	f, err := frame.New([]string{"a", "b", "c", "d"})
	require.NoError(t, err)
	require.NoError(t, f.AddNumeric("x", frame.FillZero,
		map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4}))
	// y matches x exactly on its present rows; row d is null.
	require.NoError(t, f.AddNumericNullable("y", frame.FillNull,
		map[string]float64{"a": 1, "b": 2, "c": 3},
		map[string]bool{"a": true, "b": true, "c": true, "d": false}))

	pruner, err := FitPruner(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, pruner.Dropped())
}

func TestEncoderVocabularySortedAtFit(t *testing.T) {
	f, err := frame.New([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, f.AddCategorical("top_composant",
		map[string]string{"a": "quiz", "b": "forum", "c": "quiz"}))

	enc := FitEncoder(f)
	assert.Equal(t, []string{"top_composant"}, enc.Columns())
	assert.Equal(t, []string{"forum", "quiz"}, enc.Vocabulary("top_composant"))
}

func TestEncoderUnseenValueEncodesAllZero(t *testing.T) {
	train, err := frame.New([]string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, train.AddNumeric("nb_actions", frame.FillZero,
		map[string]float64{"a": 3, "b": 5}))
	require.NoError(t, train.AddCategorical("top_composant",
		map[string]string{"a": "forum", "b": "quiz"}))

	enc := FitEncoder(train)

	test, err := frame.New([]string{"x", "y"})
	require.NoError(t, err)
	require.NoError(t, test.AddNumeric("nb_actions", frame.FillZero,
		map[string]float64{"x": 1, "y": 2}))
	require.NoError(t, test.AddCategorical("top_composant",
		map[string]string{"x": "wiki"})) // unseen; y has no value at all

	out, err := enc.Apply(test)
	require.NoError(t, err)

	// Numeric columns first, then indicator blocks in fitted order.
	assert.Equal(t,
		[]string{"nb_actions", "top_composant_forum", "top_composant_quiz"},
		out.ColumnNames())

	for row := 0; row < 2; row++ {
		for _, col := range []string{"top_composant_forum", "top_composant_quiz"} {
			v, ok, err := out.NumAt(row, col)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestEncoderRecoversCategory(t *testing.T) {
	f, err := frame.New([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, f.AddCategorical("top_evenement",
		map[string]string{"a": "viewed", "b": "submitted", "c": "viewed"}))

	enc := FitEncoder(f)
	out, err := enc.Apply(f)
	require.NoError(t, err)

	// Exactly one indicator is hot per row, and it names the original value.
	for row, want := range []string{"viewed", "submitted", "viewed"} {
		hot := ""
		for _, col := range out.ColumnNames() {
			v, ok, err := out.NumAt(row, col)
			require.NoError(t, err)
			require.True(t, ok)
			if v == 1 {
				require.Empty(t, hot, "two hot indicators in one row")
				hot = col
			}
		}
		assert.Equal(t, "top_evenement_"+want, hot)
	}
}

func TestEncoderRejectsMissingFittedColumn(t *testing.T) {
	train, err := frame.New([]string{"a"})
	require.NoError(t, err)
	require.NoError(t, train.AddCategorical("top_contexte", map[string]string{"a": "cours"}))
	enc := FitEncoder(train)

	other, err := frame.New([]string{"a"})
	require.NoError(t, err)
	_, err = enc.Apply(other)
	require.Error(t, err)
}

func TestScalerMapsFittedRangeToUnitInterval(t *testing.T) {
	keys := []string{"a", "b", "c"}
	f := numFrame(t, keys, map[string][]float64{
		"x":        {10, 20, 30},
		"constant": {7, 7, 7},
	}, []string{"x", "constant"})

	scaler, err := FitScaler(f)
	require.NoError(t, err)

	min, max, ok := scaler.Range("x")
	require.True(t, ok)
	assert.Equal(t, 10.0, min)
	assert.Equal(t, 30.0, max)

	out, err := scaler.Apply(f)
	require.NoError(t, err)

	wantX := []float64{0, 0.5, 1}
	for i := range keys {
		v, ok, err := out.NumAt(i, "x")
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, wantX[i], v, 1e-12)

		c, ok, err := out.NumAt(i, "constant")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 0.0, c)
	}
}

func TestScalerDoesNotClipOutOfRange(t *testing.T) {
	train := numFrame(t, []string{"a", "b"}, map[string][]float64{
		"x": {0, 10},
	}, []string{"x"})

	scaler, err := FitScaler(train)
	require.NoError(t, err)

	test := numFrame(t, []string{"z"}, map[string][]float64{
		"x": {15},
	}, []string{"x"})

	out, err := scaler.Apply(test)
	require.NoError(t, err)

	v, ok, err := out.NumAt(0, "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.5, v)
}

func TestScalerKeepsNullsNull(t *testing.T) {
	f, err := frame.New([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, f.AddNumericNullable("x", frame.FillNull,
		map[string]float64{"a": 1, "b": 3},
		map[string]bool{"a": true, "b": true, "c": false}))

	scaler, err := FitScaler(f)
	require.NoError(t, err)
	out, err := scaler.Apply(f)
	require.NoError(t, err)

	_, ok, err := out.NumAt(2, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessorFitsOnTrainOnly(t *testing.T) {
	train, err := frame.New([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, train.AddNumeric("nb_actions", frame.FillZero,
		map[string]float64{"a": 2, "b": 4, "c": 6}))
	require.NoError(t, train.AddNumeric("nb_actions_bis", frame.FillZero,
		map[string]float64{"a": 2, "b": 4, "c": 6})) // duplicate, pruned
	require.NoError(t, train.AddCategorical("top_composant",
		map[string]string{"a": "forum", "b": "quiz", "c": "forum"}))

	proc := NewProcessor(logger.NewNop())
	fitted, scaledTrain, err := proc.Fit(train)
	require.NoError(t, err)

	assert.Equal(t, []string{"nb_actions_bis"}, fitted.Pruner.Dropped())
	assert.Equal(t,
		[]string{"nb_actions", "top_composant_forum", "top_composant_quiz"},
		scaledTrain.ColumnNames())

	// All fitted-table values land in [0, 1].
	for _, c := range scaledTrain.Columns() {
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Num(i)
			require.True(t, ok)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	// Holdout goes through the same fitted chain: same schema, train
	// bounds, unseen categories to zero.
	test, err := frame.New([]string{"z"})
	require.NoError(t, err)
	require.NoError(t, test.AddNumeric("nb_actions", frame.FillZero,
		map[string]float64{"z": 8})) // beyond the fitted max of 6
	require.NoError(t, test.AddNumeric("nb_actions_bis", frame.FillZero,
		map[string]float64{"z": 8}))
	require.NoError(t, test.AddCategorical("top_composant",
		map[string]string{"z": "wiki"}))

	out, err := fitted.Apply(test)
	require.NoError(t, err)
	assert.Equal(t, scaledTrain.ColumnNames(), out.ColumnNames())

	v, ok, err := out.NumAt(0, "nb_actions")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-12) // (8-2)/(6-2), unclipped

	for _, col := range []string{"top_composant_forum", "top_composant_quiz"} {
		v, ok, err := out.NumAt(0, col)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 0.0, v)
	}
}
