package dataset

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/edulens/internal/contracts"
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

func wideTable(t *testing.T, keys []string) *frame.Frame {
	t.Helper()

	f, err := frame.New(keys)
	require.NoError(t, err)

	vals := make(map[string]float64, len(keys))
	for i, k := range keys {
		vals[k] = float64(i + 1)
	}
	require.NoError(t, f.AddNumeric("nb_actions", frame.FillZero, vals))
	return f
}

func TestJoinLabelsAlignsRows(t *testing.T) {
	wide := wideTable(t, []string{"a", "b", "c", "d"})

	labels := []contracts.Label{
		{SubjectID: "d", Value: 12},
		{SubjectID: "b", Value: 8},
		{SubjectID: "zz", Value: 99}, // no features, ignored
	}

	labeled, err := JoinLabels(wide, labels)
	require.NoError(t, err)

	// Wide-table order is preserved; unlabeled subjects are dropped.
	assert.Equal(t, []string{"b", "d"}, labeled.Subjects)
	assert.Equal(t, []float64{8, 12}, labeled.Labels)
	assert.Equal(t, []string{"b", "d"}, labeled.Features.Keys())

	v, ok, err := labeled.Features.NumAt(0, "nb_actions")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestJoinLabelsNoOverlap(t *testing.T) {
	wide := wideTable(t, []string{"a", "b"})

	_, err := JoinLabels(wide, []contracts.Label{{SubjectID: "x", Value: 1}})
	assert.ErrorIs(t, err, contracts.ErrNoOverlap)
}

func TestJoinLabelsRejectsDuplicates(t *testing.T) {
	wide := wideTable(t, []string{"a"})

	_, err := JoinLabels(wide, []contracts.Label{
		{SubjectID: "a", Value: 1},
		{SubjectID: "a", Value: 2},
	})
	require.Error(t, err)
}

func TestSplitIsDisjointCover(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	wide := wideTable(t, keys)

	labels := make([]contracts.Label, len(keys))
	for i, k := range keys {
		labels[i] = contracts.Label{SubjectID: k, Value: float64(i)}
	}

	labeled, err := JoinLabels(wide, labels)
	require.NoError(t, err)

	splitter := NewSplitter(0.2, 1, logger.NewNop())
	split, err := splitter.Split(labeled)
	require.NoError(t, err)

	assert.Len(t, split.TestSubjects, 2) // ceil(0.2 * 10)
	assert.Len(t, split.TrainSubjects, 8)

	all := append(append([]string{}, split.TrainSubjects...), split.TestSubjects...)
	sort.Strings(all)
	assert.Equal(t, keys, all)

	// features and labels stay aligned within each side
	for i, subject := range split.TrainSubjects {
		row, ok := split.TrainX.Row(subject)
		require.True(t, ok)
		assert.Equal(t, i, row)
	}
	assert.Len(t, split.TrainY, 8)
	assert.Len(t, split.TestY, 2)
}

func TestSplitIsReproducible(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	wide := wideTable(t, keys)

	labels := make([]contracts.Label, len(keys))
	for i, k := range keys {
		labels[i] = contracts.Label{SubjectID: k, Value: float64(i)}
	}
	labeled, err := JoinLabels(wide, labels)
	require.NoError(t, err)

	first, err := NewSplitter(0.2, 42, logger.NewNop()).Split(labeled)
	require.NoError(t, err)
	second, err := NewSplitter(0.2, 42, logger.NewNop()).Split(labeled)
	require.NoError(t, err)

	assert.Equal(t, first.TestSubjects, second.TestSubjects)
	assert.Equal(t, first.TrainSubjects, second.TrainSubjects)
}

func TestSplitTooFewRows(t *testing.T) {
	wide := wideTable(t, []string{"a"})
	labeled, err := JoinLabels(wide, []contracts.Label{{SubjectID: "a", Value: 1}})
	require.NoError(t, err)

	_, err = NewSplitter(0.2, 1, logger.NewNop()).Split(labeled)
	require.Error(t, err)
}
