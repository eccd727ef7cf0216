package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/example/batch.yaml", []byte(`
params:
  lr: "0.01"
  epochs: "3"
tags:
  team: search
metrics:
  loss: 0.25
`), 0644))

	batch, err := loadBatch(fs, "/etc/example/batch.yaml")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"lr": "0.01", "epochs": "3"}, batch.Params)
	assert.Equal(t, map[string]string{"team": "search"}, batch.Tags)
	assert.Equal(t, map[string]float64{"loss": 0.25}, batch.Metrics)
	assert.Equal(t, []string{"epochs", "lr"}, SortedKeys(batch.Params))
}

func TestLoadBatchDefault(t *testing.T) {
	batch, err := loadBatch(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"KEY1": "VALUE"}, batch.Params)
	assert.Equal(t, map[string]string{"KEY2": "VALU2"}, batch.Tags)

	_, err = loadBatch(afero.NewMemMapFs(), "/missing.yaml")
	assert.Error(t, err)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("EXAMPLE_RUNS", "4")
	t.Setenv("EXAMPLE_EXPERIMENT_NAME", "nightly")

	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Runs)
	assert.Equal(t, "nightly", cfg.ExperimentName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.FakeServer)
}
