// Package irrigation turns soil readings into irrigation decisions.
package irrigation

import (
	"fmt"
	"math"
	"time"

	"github.com/shivanshkc/soilstat/pkg/sensor"
)

const (
	// ReasonNominal is given when no threshold is crossed.
	ReasonNominal = "conditions nominal"
	// ReasonSalinity is an advisory only; it never triggers irrigation.
	ReasonSalinity = "high salinity, monitor"
)

// Thresholds configure the decision function.
type Thresholds struct {
	// HumidityLow triggers irrigation when humidity falls below it (%).
	HumidityLow float64 `yaml:"humidity_low"`
	// TemperatureCritical triggers irrigation when the rolling reference
	// temperature exceeds it (C).
	TemperatureCritical float64 `yaml:"temperature_critical"`
	// SalinityHigh raises the salinity advisory when exceeded (dS/m)...
	SalinityHigh float64 `yaml:"salinity_high"`
	// SalinityHumidity ...but only while humidity is above this level (%).
	SalinityHumidity float64 `yaml:"salinity_humidity"`
}

// DefaultThresholds returns the field-tested defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HumidityLow:         40.0,
		TemperatureCritical: 28.0,
		SalinityHigh:        2.0,
		SalinityHumidity:    55.0,
	}
}

// Decision is the outcome for a single reading.
type Decision struct {
	Time           time.Time
	ShouldIrrigate bool
	Reason         string
}

// Decider evaluates readings against thresholds and a rolling reference
// temperature.
//
// The reference is the most recent cycle median. It starts at 0, so the
// temperature rule stays quiet until the first cycle has been processed.
type Decider struct {
	thresholds Thresholds
	reference  float64
	now        func() time.Time
}

// NewDecider returns a Decider using the given thresholds.
func NewDecider(thresholds Thresholds) *Decider {
	return &Decider{thresholds: thresholds, now: time.Now}
}

// WithClock replaces the clock used to stamp decisions.
func (d *Decider) WithClock(now func() time.Time) *Decider {
	d.now = now
	return d
}

// Reference returns the current rolling reference temperature.
func (d *Decider) Reference() float64 { return d.reference }

// SetReference replaces the rolling reference temperature. It is called once
// per processed cycle.
func (d *Decider) SetReference(temperature float64) { d.reference = temperature }

// Decide evaluates r. Rules are checked in order and the first match wins:
// low humidity, high reference temperature, then the salinity advisory.
func (d *Decider) Decide(r sensor.Reading) Decision {
	decision := Decision{Time: d.now(), Reason: ReasonNominal}

	switch {
	case r.Humidity < d.thresholds.HumidityLow:
		decision.ShouldIrrigate = true
		decision.Reason = fmt.Sprintf("humidity too low (%.1f%%)", round1(r.Humidity))
	case d.reference > d.thresholds.TemperatureCritical:
		decision.ShouldIrrigate = true
		decision.Reason = fmt.Sprintf("high water demand (rolling median %.1fC)", round1(d.reference))
	case r.Salinity > d.thresholds.SalinityHigh && r.Humidity > d.thresholds.SalinityHumidity:
		decision.Reason = ReasonSalinity
	}

	return decision
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
