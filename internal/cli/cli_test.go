package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/soilstat/internal/config"
	"github.com/shivanshkc/soilstat/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Discard()
	text.DisableColors()
	os.Exit(m.Run())
}

func TestValidateSimulateFlags(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.SimulationConfig)
		want   string
	}{
		{name: "defaults", mutate: func(*config.SimulationConfig) {}, want: ""},
		{name: "upper case store", mutate: func(c *config.SimulationConfig) { c.Store = "LINEAR" }, want: ""},
		{name: "unknown store", mutate: func(c *config.SimulationConfig) { c.Store = "heap" },
			want: "Unknown store: heap. Use linear or balanced."},
		{name: "zero cycle size", mutate: func(c *config.SimulationConfig) { c.CycleSize = 0 },
			want: "Cycle size must be greater than 0."},
		{name: "negative delay", mutate: func(c *config.SimulationConfig) { c.Delay = -time.Second },
			want: "Delay must not be negative."},
		{name: "negative cycles", mutate: func(c *config.SimulationConfig) { c.Cycles = -1 },
			want: "Cycles must not be negative."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg.Simulation)
			assert.Equal(t, tt.want, validateSimulateFlags(cfg))
		})
	}
}

func TestValidateBenchFlags(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.BenchConfig)
		want   string
	}{
		{name: "defaults", mutate: func(*config.BenchConfig) {}, want: ""},
		{name: "no volumes", mutate: func(c *config.BenchConfig) { c.Volumes = nil },
			want: "At least one volume is required."},
		{name: "zero volume", mutate: func(c *config.BenchConfig) { c.Volumes = []int{10, 0} },
			want: "Volumes must be greater than 0."},
		{name: "zero repeat", mutate: func(c *config.BenchConfig) { c.Repetitions = 0 },
			want: "Repeat count must be greater than 0."},
		{name: "no stores", mutate: func(c *config.BenchConfig) { c.Stores = nil },
			want: "At least one store is required."},
		{name: "unknown store", mutate: func(c *config.BenchConfig) { c.Stores = []string{"linear", "skiplist"} },
			want: "Unknown store: skiplist. Use linear or balanced."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg.Bench)
			assert.Equal(t, tt.want, validateBenchFlags(cfg))
		})
	}
}

func TestRunSimulation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "irrigation_log.txt")

	cfg := config.Default()
	cfg.Simulation.Store = "linear"
	cfg.Simulation.CycleSize = 4
	cfg.Simulation.Delay = 0
	cfg.Simulation.Cycles = 2
	cfg.Simulation.Seed = 42
	cfg.Simulation.LogFile = logPath

	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), cfg, &out))

	output := out.String()
	assert.Contains(t, output, "Active store: linear")
	assert.Contains(t, output, "Run: ")
	assert.Equal(t, 8, strings.Count(output, "[Reading "))
	assert.Contains(t, output, "END OF CYCLE 1")
	assert.Contains(t, output, "END OF CYCLE 2")
	assert.NotContains(t, output, "END OF CYCLE 3")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(string(content), "IRRIGATE: "))
}

func TestRunSimulation_NoDecisionLog(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Delay = 0
	cfg.Simulation.Cycles = 1
	cfg.Simulation.Seed = 7
	cfg.Simulation.LogFile = ""

	var out bytes.Buffer
	require.NoError(t, runSimulation(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "Active store: balanced")
	assert.NotContains(t, out.String(), "Run: ")
}

func TestRunSimulation_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.Default()
	cfg.Simulation.LogFile = ""

	var out bytes.Buffer
	err := runSimulation(ctx, cfg, &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBench(t *testing.T) {
	cfg := config.Default()
	cfg.Bench.Volumes = []int{200, 400}
	cfg.Bench.Repetitions = 2

	var out bytes.Buffer
	require.NoError(t, runBench(context.Background(), cfg, &out))

	output := out.String()
	assert.Contains(t, output, "[8/8] runs complete.")
	assert.Contains(t, strings.ToLower(output), "sample store benchmark")
	assert.Contains(t, output, "balanced")
	assert.Contains(t, output, "(p90 ")
}

func TestRunBench_UnknownStore(t *testing.T) {
	cfg := config.Default()
	cfg.Bench.Stores = []string{"skiplist"}

	var out bytes.Buffer
	assert.Error(t, runBench(context.Background(), cfg, &out))
}
