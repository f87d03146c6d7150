package desempenho

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~flobar/desempenho/pkg/desempenho/ml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadModelErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadModel(filepath.Join(dir, "missing.joblib"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.joblib")
	require.NoError(t, os.WriteFile(garbage, []byte("not a model"), 0o644))
	_, err = ReadModel(garbage)
	assert.Error(t, err)
}

func TestWriteModelUnfitted(t *testing.T) {
	dir := t.TempDir()
	p := ml.NewPipeline([]string{"Nota"}, ml.NewLR(42))

	// An existing model is kept.
	path := filepath.Join(dir, DefaultModel)
	require.NoError(t, os.WriteFile(path, []byte("previous model"), 0o644))
	assert.ErrorIs(t, WriteModel(path, p), ml.ErrNotFitted)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous model", string(got))

	// No file is created.
	path = filepath.Join(dir, "new.joblib")
	assert.ErrorIs(t, WriteModel(path, p), ml.ErrNotFitted)
	assert.NoFileExists(t, path)
}

func TestWriteModelBadPath(t *testing.T) {
	dir := t.TempDir()
	c := mkconfig(mkdata(t, dir, 100), filepath.Join(dir, DefaultModel))
	res, err := Run(new(bytes.Buffer), c)
	require.NoError(t, err)
	assert.Error(t, WriteModel(filepath.Join(dir, "no", "such", "dir.joblib"), res.Pipeline))
}
