package cli

import (
	"github.com/shivanshkc/soilstat/internal/config"
	"github.com/shivanshkc/soilstat/pkg/store"
)

// validateSimulateFlags validates the flags of the simulate command, applied
// on top of the configuration file.
func validateSimulateFlags(cfg config.Config) string {
	sc := cfg.Simulation

	// Store must be a known strategy.
	if _, err := store.ParseKind(sc.Store); err != nil {
		return "Unknown store: " + sc.Store + ". Use linear or balanced."
	}

	// At least 1 reading per cycle.
	if sc.CycleSize <= 0 {
		return "Cycle size must be greater than 0."
	}

	if sc.Delay < 0 {
		return "Delay must not be negative."
	}

	if sc.Cycles < 0 {
		return "Cycles must not be negative."
	}

	return ""
}

// validateBenchFlags validates the flags of the bench command, applied on top
// of the configuration file.
func validateBenchFlags(cfg config.Config) string {
	bc := cfg.Bench

	// At least 1 volume is required.
	if len(bc.Volumes) == 0 {
		return "At least one volume is required."
	}

	for _, v := range bc.Volumes {
		if v <= 0 {
			return "Volumes must be greater than 0."
		}
	}

	// At least 1 run per pair.
	if bc.Repetitions <= 0 {
		return "Repeat count must be greater than 0."
	}

	// At least 1 store to compare.
	if len(bc.Stores) == 0 {
		return "At least one store is required."
	}

	for _, s := range bc.Stores {
		if _, err := store.ParseKind(s); err != nil {
			return "Unknown store: " + s + ". Use linear or balanced."
		}
	}

	return ""
}
