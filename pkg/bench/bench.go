// Package bench measures sample store strategies against identical workloads.
//
// Every run follows the same sequence on a fresh store: insert N samples, one
// median, one range query, one remove and a clear. Each step is timed on its
// own. The runner only characterizes performance; it makes no correctness
// checks.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shivanshkc/soilstat/internal/logging"
	"github.com/shivanshkc/soilstat/pkg/sensor"
	"github.com/shivanshkc/soilstat/pkg/store"
	"github.com/shivanshkc/soilstat/pkg/streams"
)

// ErrInvalidConfig is wrapped by every configuration error returned by Run.
var ErrInvalidConfig = errors.New("invalid benchmark configuration")

// Default range query bounds.
const (
	DefaultRangeLo = 25.0
	DefaultRangeHi = 35.0
)

// Factory creates an empty store for one run.
type Factory func() store.Store

// FactoryFor returns a Factory producing stores of the given kind.
func FactoryFor(kind store.Kind) (Factory, error) {
	if _, err := store.New(kind); err != nil {
		return nil, err
	}
	return func() store.Store {
		s, _ := store.New(kind)
		return s
	}, nil
}

// Config describes a benchmark.
type Config struct {
	// Volumes are the sample counts to test, in order.
	Volumes []int
	// Repetitions is the number of runs per (volume, store) pair.
	Repetitions int
	// Seed seeds the synthetic workload. Every store sees the same samples
	// for a given volume and repetition.
	Seed uint64
	// RangeLo and RangeHi bound the range query. Both zero selects the defaults.
	RangeLo, RangeHi float64
	// Progress, when set, is called after every run.
	Progress func(done, total int)
}

// Result holds the measurements for one (volume, store) pair.
type Result struct {
	Volume      int
	Kind        store.Kind
	Repetitions int

	Insert, Median, Range, Remove, Clear Metrics

	// RangeHits is the size of the range query result in the last run.
	RangeHits int
}

// Phase returns the metrics of the given phase.
func (r Result) Phase(p Phase) Metrics {
	switch p {
	case PhaseInsert:
		return r.Insert
	case PhaseMedian:
		return r.Median
	case PhaseRange:
		return r.Range
	case PhaseRemove:
		return r.Remove
	case PhaseClear:
		return r.Clear
	default:
		return Metrics{}
	}
}

// Run benchmarks every factory at every volume and returns one Result per
// pair, ordered by volume and then by factory.
//
// Runs execute one after another in the calling goroutine so that they never
// compete for CPU. The context is checked between phases; cancellation aborts
// with ctx.Err().
func Run(ctx context.Context, cfg Config, factories ...Factory) ([]Result, error) {
	if err := cfg.validate(len(factories)); err != nil {
		return nil, err
	}

	lo, hi := cfg.RangeLo, cfg.RangeHi
	if lo == 0 && hi == 0 {
		lo, hi = DefaultRangeLo, DefaultRangeHi
	}

	log := logging.Component("bench")
	total := len(cfg.Volumes) * len(factories) * cfg.Repetitions
	done := 0

	// Runs are gathered per pair first, since repetitions are the outer loop.
	runs := make([][]timingsArray, len(cfg.Volumes))
	kinds := make([]store.Kind, len(factories))

	for vi, volume := range cfg.Volumes {
		runs[vi] = make([]timingsArray, len(factories))

		for rep := range cfg.Repetitions {
			// One workload per repetition, shared by every store.
			samples, err := workload(ctx, volume, cfg.Seed+uint64(vi)*1_000_003+uint64(rep))
			if err != nil {
				return nil, err
			}

			for fi, factory := range factories {
				s := factory()
				kinds[fi] = s.Kind()

				t, err := runOnce(ctx, s, samples, lo, hi)
				if err != nil {
					return nil, err
				}
				runs[vi][fi] = append(runs[vi][fi], t)

				done++
				log.Debug("run complete", "volume", volume, "store", s.Kind(), "repetition", rep+1,
					"insert", t.Insert, "median", t.Median)
				if cfg.Progress != nil {
					cfg.Progress(done, total)
				}
			}
		}
	}

	results := make([]Result, 0, len(cfg.Volumes)*len(factories))
	for vi, volume := range cfg.Volumes {
		for fi := range factories {
			arr := runs[vi][fi]
			results = append(results, Result{
				Volume:      volume,
				Kind:        kinds[fi],
				Repetitions: len(arr),
				Insert:      durations(arr.Phase(PhaseInsert)).Metrics(),
				Median:      durations(arr.Phase(PhaseMedian)).Metrics(),
				Range:       durations(arr.Phase(PhaseRange)).Metrics(),
				Remove:      durations(arr.Phase(PhaseRemove)).Metrics(),
				Clear:       durations(arr.Phase(PhaseClear)).Metrics(),
				RangeHits:   arr.RangeHits(),
			})
		}
	}
	return results, nil
}

// runOnce executes the five phases against s.
func runOnce(ctx context.Context, s store.Store, samples []float64, lo, hi float64) (timings, error) {
	var t timings

	start := time.Now()
	for _, v := range samples {
		s.Insert(v)
	}
	t.Insert = time.Since(start)
	if err := ctx.Err(); err != nil {
		return timings{}, err
	}

	start = time.Now()
	t.MedianValue = s.Median()
	t.Median = time.Since(start)
	if err := ctx.Err(); err != nil {
		return timings{}, err
	}

	start = time.Now()
	hits := s.RangeQuery(lo, hi)
	t.Range = time.Since(start)
	t.RangeHits = len(hits)
	if err := ctx.Err(); err != nil {
		return timings{}, err
	}

	start = time.Now()
	s.Remove(samples[0])
	t.Remove = time.Since(start)

	start = time.Now()
	s.Clear()
	t.Clear = time.Since(start)

	return t, ctx.Err()
}

// workload generates n temperatures with the simulator's distribution. It
// stops early with ctx.Err() when ctx is done.
func workload(ctx context.Context, n int, seed uint64) ([]float64, error) {
	// Seed 0 means "time based" to the generator; keep workloads reproducible.
	if seed == 0 {
		seed = 1
	}
	temperatures := streams.Map(sensor.NewGenerator(seed).Stream(), func(r sensor.Reading) float64 {
		return r.Temperature
	})
	return streams.Take(temperatures, n).Exhaust(ctx)
}

func (c Config) validate(factoryCount int) error {
	if factoryCount == 0 {
		return fmt.Errorf("%w: at least one store is required", ErrInvalidConfig)
	}
	if len(c.Volumes) == 0 {
		return fmt.Errorf("%w: at least one volume is required", ErrInvalidConfig)
	}
	for _, v := range c.Volumes {
		if v <= 0 {
			return fmt.Errorf("%w: volume must be greater than 0, got %d", ErrInvalidConfig, v)
		}
	}
	if c.Repetitions <= 0 {
		return fmt.Errorf("%w: repetitions must be greater than 0", ErrInvalidConfig)
	}
	return nil
}
