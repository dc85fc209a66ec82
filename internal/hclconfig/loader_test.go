package hclconfig_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rcpsgo/internal/hclconfig"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full batch block", func(t *testing.T) {
		path := writeConfig(t, `
batch "j90" {
  data_dir           = "data"
  extension          = ".data"
  start_from         = "j9010_1.data"
  time_limit_seconds = 900
  seed               = 7
  workers            = 4
  output             = "result/j90_no_bound_900s.csv"
  log_level          = "debug"
}
`)
		batch, err := hclconfig.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "j90", batch.Name)
		assert.Equal(t, "data", batch.DataDir)
		assert.Equal(t, ".data", batch.Extension)
		assert.Equal(t, "j9010_1.data", batch.StartFrom)
		assert.Equal(t, 900, batch.TimeLimitSeconds)
		assert.Equal(t, int64(7), batch.Seed)
		assert.Equal(t, 4, batch.Workers)
		assert.Equal(t, "result/j90_no_bound_900s.csv", batch.Output)
		assert.Equal(t, "debug", batch.LogLevel)
	})

	t.Run("expressions can reference num_cpu", func(t *testing.T) {
		path := writeConfig(t, `
batch "local" {
  data_dir = "data"
  workers  = num_cpu
}
`)
		batch, err := hclconfig.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, runtime.NumCPU(), batch.Workers)
	})

	t.Run("optional fields default to zero values", func(t *testing.T) {
		path := writeConfig(t, `
batch "min" {
  data_dir = "instances"
}
`)
		batch, err := hclconfig.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "instances", batch.DataDir)
		assert.Zero(t, batch.TimeLimitSeconds)
		assert.Zero(t, batch.Workers)
		assert.Empty(t, batch.UploadURL)
	})

	t.Run("missing data_dir is rejected", func(t *testing.T) {
		path := writeConfig(t, `
batch "broken" {
  workers = 2
}
`)
		_, err := hclconfig.Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("no batch block is rejected", func(t *testing.T) {
		path := writeConfig(t, ``)
		_, err := hclconfig.Load(context.Background(), path)
		require.Error(t, err)
		assert.ErrorContains(t, err, "defines 0 batch blocks")
	})

	t.Run("invalid syntax is rejected", func(t *testing.T) {
		path := writeConfig(t, `batch "x" {`)
		_, err := hclconfig.Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("missing file is rejected", func(t *testing.T) {
		_, err := hclconfig.Load(context.Background(), filepath.Join(t.TempDir(), "gone.hcl"))
		assert.Error(t, err)
	})
}
