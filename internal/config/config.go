// Package config loads the optional YAML configuration file.
//
// Every setting has a default, so the file is never required. Command-line
// flags are applied on top of whatever the file provides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shivanshkc/soilstat/pkg/irrigation"
	"github.com/shivanshkc/soilstat/pkg/store"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete application configuration.
type Config struct {
	Log        LogConfig             `yaml:"log"`
	Simulation SimulationConfig      `yaml:"simulation"`
	Thresholds irrigation.Thresholds `yaml:"thresholds"`
	Bench      BenchConfig           `yaml:"bench"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// JSON switches the log output to JSON lines.
	JSON bool `yaml:"json"`
}

// SimulationConfig configures the sensor cycle loop.
type SimulationConfig struct {
	// Store selects the sample store strategy.
	Store string `yaml:"store"`
	// CycleSize is the number of readings per processing cycle.
	CycleSize int `yaml:"cycle_size"`
	// Delay is the pause between readings.
	Delay time.Duration `yaml:"delay"`
	// Cycles stops the loop after that many processed cycles. 0 runs forever.
	Cycles int `yaml:"cycles"`
	// LogFile receives the decision log. Empty disables it.
	LogFile string `yaml:"log_file"`
	// Seed seeds the reading generator. 0 picks a time-based seed.
	Seed uint64 `yaml:"seed"`
	// MetricsAddr serves Prometheus metrics when set, e.g. ":9102".
	MetricsAddr string `yaml:"metrics_addr"`
}

// BenchConfig configures the benchmark command.
type BenchConfig struct {
	Volumes     []int    `yaml:"volumes"`
	Repetitions int      `yaml:"repetitions"`
	Stores      []string `yaml:"stores"`
	Seed        uint64   `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Simulation: SimulationConfig{
			Store:     string(store.KindBalanced),
			CycleSize: 16,
			Delay:     100 * time.Millisecond,
			LogFile:   "irrigation_log.txt",
		},
		Thresholds: irrigation.DefaultThresholds(),
		Bench: BenchConfig{
			Volumes:     []int{1_000, 10_000, 100_000},
			Repetitions: 1,
			Stores:      []string{string(store.KindLinear), string(store.KindBalanced)},
			Seed:        1,
		},
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot run with.
func (c Config) Validate() error {
	if _, err := store.ParseKind(c.Simulation.Store); err != nil {
		return fmt.Errorf("%w: simulation.store: %w", ErrInvalid, err)
	}
	if c.Simulation.CycleSize <= 0 {
		return fmt.Errorf("%w: simulation.cycle_size must be greater than 0", ErrInvalid)
	}
	if c.Simulation.Delay < 0 {
		return fmt.Errorf("%w: simulation.delay must not be negative", ErrInvalid)
	}
	if c.Simulation.Cycles < 0 {
		return fmt.Errorf("%w: simulation.cycles must not be negative", ErrInvalid)
	}
	if len(c.Bench.Volumes) == 0 {
		return fmt.Errorf("%w: bench.volumes must not be empty", ErrInvalid)
	}
	for _, v := range c.Bench.Volumes {
		if v <= 0 {
			return fmt.Errorf("%w: bench.volumes must be greater than 0, got %d", ErrInvalid, v)
		}
	}
	if c.Bench.Repetitions <= 0 {
		return fmt.Errorf("%w: bench.repetitions must be greater than 0", ErrInvalid)
	}
	for _, s := range c.Bench.Stores {
		if _, err := store.ParseKind(s); err != nil {
			return fmt.Errorf("%w: bench.stores: %w", ErrInvalid, err)
		}
	}
	return nil
}
