package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

func TestWriteFrameEmptyCellForNull(t *testing.T) {
	f, err := frame.New([]string{"alice", "bob"})
	require.NoError(t, err)
	require.NoError(t, f.AddNumeric("nb_actions", frame.FillZero,
		map[string]float64{"alice": 3, "bob": 1}))
	require.NoError(t, f.AddNumericNullable("std_actions_par_jour", frame.FillNull,
		map[string]float64{"alice": 0.5},
		map[string]bool{"alice": true, "bob": false}))
	require.NoError(t, f.AddCategorical("top_composant",
		map[string]string{"alice": "forum"}))

	dir := t.TempDir()
	path, err := NewWriter(dir, logger.NewNop()).WriteFrame("df_complet", f)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "df_complet.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"pseudo,nb_actions,std_actions_par_jour,top_composant\n"+
			"alice,3,0.5,forum\n"+
			"bob,1,,\n",
		string(data))
}

func TestWriteVector(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop())

	path, err := w.WriteVector("y_train", "note", []string{"alice", "bob"}, []float64{14.5, 9})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pseudo,note\nalice,14.5\nbob,9\n", string(data))
}

func TestWriteVectorLengthMismatch(t *testing.T) {
	w := NewWriter(t.TempDir(), logger.NewNop())
	_, err := w.WriteVector("y", "note", []string{"a"}, []float64{1, 2})
	require.Error(t, err)
}
