package bench

import (
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
)

// sketchAccuracy is the relative accuracy of percentile estimates.
const sketchAccuracy = 0.01

// Metrics summarizes the latency of one phase across repetitions.
//
// Avg, Min and Max are exact. Med, P90 and P99 are DDSketch estimates with 1%
// relative accuracy.
type Metrics struct {
	Avg, Min, Med, Max, P90, P99 time.Duration
}

type durations []time.Duration

// Metrics computes the summary. An empty slice yields zero Metrics.
func (ds durations) Metrics() Metrics {
	if len(ds) == 0 {
		return Metrics{}
	}

	var total time.Duration
	m := Metrics{Min: ds[0], Max: ds[0]}
	for _, d := range ds {
		total += d
		m.Min = min(m.Min, d)
		m.Max = max(m.Max, d)
	}
	m.Avg = total / time.Duration(len(ds))

	sketch, err := ddsketch.NewDefaultDDSketch(sketchAccuracy)
	if err != nil {
		return m
	}
	for _, d := range ds {
		if err := sketch.Add(float64(d)); err != nil {
			return m
		}
	}

	quantiles, err := sketch.GetValuesAtQuantiles([]float64{0.5, 0.9, 0.99})
	if err != nil {
		return m
	}

	// Estimates can fall slightly outside the observed range.
	clamp := func(v float64) time.Duration {
		return min(max(time.Duration(v), m.Min), m.Max)
	}
	m.Med, m.P90, m.P99 = clamp(quantiles[0]), clamp(quantiles[1]), clamp(quantiles[2])
	return m
}
