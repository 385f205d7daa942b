package bench

import (
	"time"
)

// Phase names one timed step of a benchmark run.
type Phase string

const (
	PhaseInsert Phase = "insert"
	PhaseMedian Phase = "median"
	PhaseRange  Phase = "range"
	PhaseRemove Phase = "remove"
	PhaseClear  Phase = "clear"
)

// Phases lists the phases in execution order.
func Phases() []Phase {
	return []Phase{PhaseInsert, PhaseMedian, PhaseRange, PhaseRemove, PhaseClear}
}

// timings holds the measurements of a single run against one store.
type timings struct {
	Insert, Median, Range, Remove, Clear time.Duration
	// RangeHits is the number of values returned by the range query.
	RangeHits int
	// MedianValue is kept so the compiler cannot drop the median call.
	MedianValue float64
}

// phase returns the duration recorded for p.
func (t timings) phase(p Phase) time.Duration {
	switch p {
	case PhaseInsert:
		return t.Insert
	case PhaseMedian:
		return t.Median
	case PhaseRange:
		return t.Range
	case PhaseRemove:
		return t.Remove
	case PhaseClear:
		return t.Clear
	default:
		return 0
	}
}

// timingsArray is the collection of runs for one (volume, store) pair.
type timingsArray []timings

// Phase collects the durations of phase p across all runs.
func (a timingsArray) Phase(p Phase) []time.Duration {
	out := make([]time.Duration, len(a))
	for i, t := range a {
		out[i] = t.phase(p)
	}
	return out
}

// RangeHits returns the hit count of the last run, or 0 without runs.
func (a timingsArray) RangeHits() int {
	if len(a) == 0 {
		return 0
	}
	return a[len(a)-1].RangeHits
}
