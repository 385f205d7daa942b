// Package simulation runs the sensor cycle loop.
//
// Each reading's temperature goes into the sample store, and the reading is
// decided, reported and logged. Once a cycle's worth of readings has arrived,
// the store is summarized. Its median becomes the decider's new reference
// temperature and the store is cleared for the next cycle.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shivanshkc/soilstat/internal/logging"
	"github.com/shivanshkc/soilstat/internal/metrics"
	"github.com/shivanshkc/soilstat/pkg/irrigation"
	"github.com/shivanshkc/soilstat/pkg/report"
	"github.com/shivanshkc/soilstat/pkg/sensor"
	"github.com/shivanshkc/soilstat/pkg/store"
	"github.com/shivanshkc/soilstat/pkg/streams"
)

const (
	// summaryCount is how many extremes are reported per cycle.
	summaryCount = 3
	// minCycleSamples is the smallest store a cycle is summarized from.
	minCycleSamples = 2

	defaultRangeLo = 25.0
	defaultRangeHi = 30.0
)

// Config controls the loop.
type Config struct {
	// CycleSize is the number of readings per cycle.
	CycleSize int
	// Delay is the pause after each reading.
	Delay time.Duration
	// MaxCycles stops the loop after that many processed cycles. 0 never stops.
	MaxCycles int
	// RangeLo and RangeHi bound the per-cycle range count. Both zero selects
	// [25.0, 30.0].
	RangeLo, RangeHi float64
}

// DecisionLog persists decisions. Append reports whether the record was kept.
type DecisionLog interface {
	Append(r sensor.Reading, d irrigation.Decision) bool
}

// Reporter presents readings and cycle statistics.
type Reporter interface {
	Reading(index int, r sensor.Reading, d irrigation.Decision)
	Cycle(stats report.CycleStats, s store.Store)
}

// Deps are the collaborators of a Simulator. Log and Metrics are optional.
type Deps struct {
	Store    store.Store
	Readings *streams.Stream[sensor.Reading]
	Decider  *irrigation.Decider
	Reporter Reporter
	Log      DecisionLog
	Metrics  *metrics.Metrics
}

// Simulator owns the store for the duration of Run.
type Simulator struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	// cycles counts processed cycles.
	cycles int
}

// New validates cfg and deps and returns a Simulator.
func New(cfg Config, deps Deps) (*Simulator, error) {
	if cfg.CycleSize <= 0 {
		return nil, errors.New("cycle size must be greater than 0")
	}
	if cfg.Delay < 0 {
		return nil, errors.New("delay must not be negative")
	}
	if deps.Store == nil || deps.Readings == nil || deps.Decider == nil || deps.Reporter == nil {
		return nil, errors.New("store, readings, decider and reporter are required")
	}
	if cfg.RangeLo == 0 && cfg.RangeHi == 0 {
		cfg.RangeLo, cfg.RangeHi = defaultRangeLo, defaultRangeHi
	}

	return &Simulator{cfg: cfg, deps: deps, log: logging.Component("simulation")}, nil
}

// Cycles returns the number of cycles processed so far.
func (s *Simulator) Cycles() int { return s.cycles }

// Run pulls readings until the source is exhausted, MaxCycles is reached or
// ctx is done. It returns nil on the first two and ctx.Err() on the last.
func (s *Simulator) Run(ctx context.Context) error {
	count := 0
	for {
		reading, ok, err := s.deps.Readings.NextContext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Info("reading source exhausted", "cycles", s.cycles)
			return nil
		}

		count++
		s.ingest(count, reading)

		if count >= s.cfg.CycleSize {
			count = 0
			if s.processCycle() && s.cfg.MaxCycles > 0 && s.cycles >= s.cfg.MaxCycles {
				s.log.Info("cycle limit reached", "cycles", s.cycles)
				return nil
			}
		}

		if err := s.wait(ctx); err != nil {
			return err
		}
	}
}

// ingest stores, decides, reports and logs a single reading.
func (s *Simulator) ingest(index int, reading sensor.Reading) {
	s.deps.Store.Insert(reading.Temperature)

	decision := s.deps.Decider.Decide(reading)
	s.deps.Reporter.Reading(index, reading, decision)
	s.deps.Metrics.Reading(decision.ShouldIrrigate)

	if s.deps.Log != nil && !s.deps.Log.Append(reading, decision) {
		s.deps.Metrics.LogWriteFailed()
	}

	s.log.Debug("reading ingested", "index", index, "temperature", reading.Temperature,
		"irrigate", decision.ShouldIrrigate)
}

// processCycle summarizes the store, hands the median to the decider and
// clears the store. A store with fewer than two samples is left untouched and
// false is returned.
func (s *Simulator) processCycle() bool {
	st := s.deps.Store
	if st.Size() < minCycleSamples {
		s.log.Debug("cycle skipped", "samples", st.Size())
		return false
	}

	s.cycles++
	samples := st.Size()
	median := st.Median()
	s.deps.Decider.SetReference(median)

	stats := report.CycleStats{
		Cycle:     s.cycles,
		Smallest:  st.KSmallest(summaryCount),
		Largest:   st.KLargest(summaryCount),
		Median:    median,
		InRange:   len(st.RangeQuery(s.cfg.RangeLo, s.cfg.RangeHi)),
		RangeLo:   s.cfg.RangeLo,
		RangeHi:   s.cfg.RangeHi,
		Reference: s.deps.Decider.Reference(),
	}
	s.deps.Reporter.Cycle(stats, st)
	s.deps.Metrics.Cycle(samples, stats.Reference)

	st.Clear()

	s.log.Info("cycle processed", "cycle", s.cycles, "samples", samples,
		"median", fmt.Sprintf("%.2f", median), "in_range", stats.InRange)
	return true
}

// wait pauses for the configured delay, returning early with ctx.Err() if ctx
// is done first.
func (s *Simulator) wait(ctx context.Context) error {
	if s.cfg.Delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.cfg.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
