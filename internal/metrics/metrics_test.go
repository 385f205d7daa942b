package metrics_test

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanshkc/soilstat/internal/metrics"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()

	m.Reading(true)
	m.Reading(false)
	m.Reading(false)
	m.Cycle(16, 27.3)
	m.LogWriteFailed()

	count, err := testutil.GatherAndCount(m.Registry(), "soilstat_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "Both outcomes are exposed.")

	expected := `
# HELP soilstat_readings_total Total soil readings ingested.
# TYPE soilstat_readings_total counter
soilstat_readings_total 3
# HELP soilstat_decisions_total Irrigation decisions by outcome.
# TYPE soilstat_decisions_total counter
soilstat_decisions_total{irrigate="false"} 2
soilstat_decisions_total{irrigate="true"} 1
# HELP soilstat_reference_temperature_celsius Rolling reference temperature used by irrigation decisions.
# TYPE soilstat_reference_temperature_celsius gauge
soilstat_reference_temperature_celsius 27.3
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"soilstat_readings_total", "soilstat_decisions_total", "soilstat_reference_temperature_celsius"))
}

func TestMetrics_Nil(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Reading(true)
		m.Cycle(3, 1)
		m.LogWriteFailed()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.Cycle(8, 25)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(recorder.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "soilstat_cycles_total 1")
}

func TestMetrics_Serve(t *testing.T) {
	t.Run("Address In Use", func(t *testing.T) {
		occupied, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer func() { _ = occupied.Close() }()

		done := make(chan error, 1)
		go func() { done <- metrics.New().Serve(context.Background(), occupied.Addr().String()) }()

		select {
		case err := <-done:
			assert.Error(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return for an occupied address.")
		}
	})

	t.Run("Stops With Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- metrics.New().Serve(ctx, "127.0.0.1:0") }()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Serve did not stop after cancellation.")
		}
	})
}
