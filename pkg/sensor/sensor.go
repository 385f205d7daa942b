// Package sensor simulates soil sensor readings.
package sensor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/shivanshkc/soilstat/pkg/streams"
)

// Reading is a single soil sample.
type Reading struct {
	Temperature float64
	Humidity    float64
	Salinity    float64
	Timestamp   time.Time
}

// String renders the reading with one decimal per measure.
func (r Reading) String() string {
	return fmt.Sprintf("Temp: %.1fC | Hum: %.1f%% | Sal: %.1f dS/m",
		round1(r.Temperature), round1(r.Humidity), round1(r.Salinity))
}

// round1 rounds half away from zero to one decimal.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Generator produces pseudo-random readings.
//
// Readings are quantized to 0.1 steps:
//   - temperature in [20.0, 34.9]
//   - humidity in [30.0, 79.9], with a 30% chance of a dry excursion in [20.0, 34.9]
//   - salinity in [0.5, 2.4]
//
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a Generator seeded with seed. A zero seed is replaced
// by the current time, so separate runs differ unless a seed is chosen.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
}

// WithClock replaces the clock used to stamp readings.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Next returns a new reading.
func (g *Generator) Next() Reading {
	temperature := 20.0 + float64(g.rng.IntN(150))/10
	humidity := 30.0 + float64(g.rng.IntN(500))/10
	salinity := 0.5 + float64(g.rng.IntN(20))/10

	// Dry spell.
	if g.rng.IntN(10) < 3 {
		humidity = 20.0 + float64(g.rng.IntN(150))/10
	}

	return Reading{
		Temperature: temperature,
		Humidity:    humidity,
		Salinity:    salinity,
		Timestamp:   g.now(),
	}
}

// Stream exposes the generator as an endless stream of readings.
func (g *Generator) Stream() *streams.Stream[Reading] {
	return streams.FromFunc(func() (Reading, bool) {
		return g.Next(), true
	})
}

// Readings exposes a fixed set of readings as a stream. It is mostly useful
// for replaying recorded or hand-written data.
func Readings(readings ...Reading) *streams.Stream[Reading] {
	i := 0
	return streams.FromFunc(func() (Reading, bool) {
		if i >= len(readings) {
			return Reading{}, false
		}
		i++
		return readings[i-1], true
	})
}
