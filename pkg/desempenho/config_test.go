package desempenho

import (
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~flobar/desempenho/pkg/desempenho/ml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	for _, tc := range []struct {
		name   string
		config string
		want   func(*Config)
	}{
		{"defaults", "", func(*Config) {}},
		{"inline json", `{"target":"Situacao","seed":7}`, func(c *Config) {
			c.Target = "Situacao"
			c.Seed = 7
		}},
		{"json", write("config.json", `{"data":"notas.csv","training":{"c":0.5}}`), func(c *Config) {
			c.Data = "notas.csv"
			c.Training.C = .5
		}},
		{"toml", write("config.toml", "testSize = 0.25\nmodel = \"m.joblib\"\n[training]\nmaxIter = 250\n"), func(c *Config) {
			c.TestSize = .25
			c.Model = "m.joblib"
			c.Training.MaxIter = 250
		}},
		{"yaml", write("config.yaml", "target: Resultado\ntraining:\n  tol: 0.001\n"), func(c *Config) {
			c.Target = "Resultado"
			c.Training.Tol = .001
		}},
		{"yml", write("config.yml", "seed: 1\n"), func(c *Config) {
			c.Seed = 1
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			want := DefaultConfig()
			tc.want(want)
			got, err := ReadConfig(tc.config)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("seed = \"x\"\n"), 0o644))
	for _, name := range []string{
		filepath.Join(dir, "missing.json"),
		bad,
		`{"seed":"x"}`,
	} {
		t.Run(filepath.Base(name), func(t *testing.T) {
			_, err := ReadConfig(name)
			assert.Error(t, err)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "historicoAcademico.csv", c.Data)
	assert.Equal(t, "Status_Final", c.Target)
	assert.Equal(t, "modelo_previsao_desempenho.joblib", c.Model)
	assert.Equal(t, .2, c.TestSize)
	assert.Equal(t, int64(42), c.Seed)

	lr := c.LR()
	assert.Equal(t, ml.DefaultC, lr.C)
	assert.Equal(t, ml.DefaultMaxIter, lr.MaxIter)
	assert.Equal(t, ml.DefaultTol, lr.Tol)
	assert.Equal(t, int64(42), lr.Seed)
}
