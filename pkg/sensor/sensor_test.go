package sensor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/soilstat/pkg/sensor"
)

func TestGenerator_Next(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	gen := sensor.NewGenerator(1234).WithClock(func() time.Time { return fixed })

	var dry int
	const samples = 5000
	for range samples {
		r := gen.Next()

		assert.GreaterOrEqual(t, r.Temperature, 20.0)
		assert.LessOrEqual(t, r.Temperature, 34.9+1e-9)
		assert.GreaterOrEqual(t, r.Humidity, 20.0)
		assert.LessOrEqual(t, r.Humidity, 79.9+1e-9)
		assert.GreaterOrEqual(t, r.Salinity, 0.5)
		assert.LessOrEqual(t, r.Salinity, 2.4+1e-9)
		assert.Equal(t, fixed, r.Timestamp)

		if r.Humidity < 30.0 {
			dry++
		}
	}

	// Roughly 30% of readings take the dry excursion, and about 2/3 of those
	// land below 30%. Keep the bounds loose.
	assert.Greater(t, dry, samples/20, "Dry excursions should occur.")
	assert.Less(t, dry, samples/2, "Dry excursions should be the exception.")
}

func TestGenerator_Deterministic(t *testing.T) {
	a := sensor.NewGenerator(99)
	b := sensor.NewGenerator(99)

	for range 100 {
		ra, rb := a.Next(), b.Next()
		assert.Equal(t, ra.Temperature, rb.Temperature)
		assert.Equal(t, ra.Humidity, rb.Humidity)
		assert.Equal(t, ra.Salinity, rb.Salinity)
	}
}

func TestGenerator_Stream(t *testing.T) {
	stream := sensor.NewGenerator(7).Stream()

	for range 3 {
		r, ok, err := stream.NextContext(context.Background())
		require.NoError(t, err)
		assert.True(t, ok, "Generator stream never ends on its own.")
		assert.NotZero(t, r.Temperature)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := stream.NextContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadings(t *testing.T) {
	stream := sensor.Readings(sensor.Reading{Temperature: 21}, sensor.Reading{Temperature: 22})

	items, err := stream.Exhaust(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 22.0, items[1].Temperature)
}

func TestReading_String(t *testing.T) {
	r := sensor.Reading{Temperature: 25.26, Humidity: 45.04, Salinity: 1.25}
	assert.Equal(t, "Temp: 25.3C | Hum: 45.0% | Sal: 1.3 dS/m", r.String())
}
