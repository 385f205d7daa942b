package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/soilstat/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soilstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "balanced", cfg.Simulation.Store)
	assert.Equal(t, 16, cfg.Simulation.CycleSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulation.Delay)
	assert.Equal(t, 40.0, cfg.Thresholds.HumidityLow)
	assert.Equal(t, 28.0, cfg.Thresholds.TemperatureCritical)
	assert.Equal(t, 2.0, cfg.Thresholds.SalinityHigh)
	assert.Equal(t, []int{1000, 10000, 100000}, cfg.Bench.Volumes)
}

func TestLoad(t *testing.T) {
	t.Run("Empty Path Returns Defaults", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("File Overrides Defaults", func(t *testing.T) {
		path := writeConfig(t, `
simulation:
  store: linear
  delay: 250ms
  cycles: 3
thresholds:
  temperature_critical: 30.5
bench:
  volumes: [500, 5000]
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, "linear", cfg.Simulation.Store)
		assert.Equal(t, 250*time.Millisecond, cfg.Simulation.Delay)
		assert.Equal(t, 3, cfg.Simulation.Cycles)
		assert.Equal(t, 16, cfg.Simulation.CycleSize, "Unset keys keep their defaults.")
		assert.Equal(t, 30.5, cfg.Thresholds.TemperatureCritical)
		assert.Equal(t, 40.0, cfg.Thresholds.HumidityLow)
		assert.Equal(t, []int{500, 5000}, cfg.Bench.Volumes)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Malformed File", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "simulation: [not, a, map"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Invalid Values", func(t *testing.T) {
		testCases := map[string]string{
			"Unknown Store":       "simulation:\n  store: heap\n",
			"Zero Cycle Size":     "simulation:\n  cycle_size: 0\n",
			"Negative Delay":      "simulation:\n  delay: -1s\n",
			"Empty Volumes":       "bench:\n  volumes: []\n",
			"Negative Volume":     "bench:\n  volumes: [10, -5]\n",
			"Zero Repetitions":    "bench:\n  repetitions: 0\n",
			"Unknown Bench Store": "bench:\n  stores: [linear, heap]\n",
		}

		for name, content := range testCases {
			t.Run(name, func(t *testing.T) {
				_, err := config.Load(writeConfig(t, content))
				assert.ErrorIs(t, err, config.ErrInvalid)
			})
		}
	})
}
