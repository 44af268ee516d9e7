package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func newFlagSet(t *testing.T) *flag.FlagSet {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("unexpected config diff (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: warn
grid:
  p: [1, 2]
  train_fraction: 0.75
bench:
  repeats: 3
store:
  path: runs.db
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	want := Default()
	want.Logging.Level = "warn"
	want.Grid.P = []int{1, 2}
	want.Grid.TrainFraction = 0.75
	want.Bench.Repeats = 3
	want.Store.Path = "runs.db"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config diff (-want +got):\n%s", diff)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeConfig(t, "logging: [unclosed\n")
	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestLoadFileInvalid(t *testing.T) {
	path := writeConfig(t, "grid:\n  train_fraction: 1.5\n")
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "train fraction")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("AML_LOGGING_LEVEL", "debug")
	t.Setenv("AML_BENCH_REPEATS", "5")
	t.Setenv("AML_STORE_PATH", "env.db")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Bench.Repeats)
	assert.Equal(t, "env.db", cfg.Store.Path)
}

func TestLoadFlags(t *testing.T) {
	fs := newFlagSet(t)
	require.NoError(t, fs.Set("grid-p", "0,1"))
	require.NoError(t, fs.Set("workers", "2,4,8"))
	require.NoError(t, fs.Set("train-fraction", "0.8"))
	require.NoError(t, fs.Set("db", "flag.db"))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, cfg.Grid.P)
	assert.Equal(t, []int{2, 4, 8}, cfg.Bench.Workers)
	assert.Equal(t, 0.8, cfg.Grid.TrainFraction)
	assert.Equal(t, "flag.db", cfg.Store.Path)
}

func TestLoadUnsetFlagsFallThrough(t *testing.T) {
	cfg, err := Load("", newFlagSet(t))
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("unexpected config diff (-want +got):\n%s", diff)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\n")

	// The file layer beats the defaults.
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Environment beats the file.
	t.Setenv("AML_LOGGING_LEVEL", "debug")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// An explicitly set flag beats both.
	fs := newFlagSet(t)
	require.NoError(t, fs.Set("log-level", "error"))
	cfg, err = Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}
