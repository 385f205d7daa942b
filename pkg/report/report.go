// Package report renders simulation progress and benchmark results for the
// console.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/shivanshkc/soilstat/pkg/bench"
	"github.com/shivanshkc/soilstat/pkg/irrigation"
	"github.com/shivanshkc/soilstat/pkg/sensor"
	"github.com/shivanshkc/soilstat/pkg/store"
	"github.com/shivanshkc/soilstat/pkg/utils/miscutils"
)

// CycleStats are the aggregates computed at the end of a cycle.
type CycleStats struct {
	Cycle    int
	Smallest []float64
	Largest  []float64
	Median   float64
	// InRange counts readings within [RangeLo, RangeHi].
	InRange          int
	RangeLo, RangeHi float64
	// Reference is the rolling reference temperature after this cycle.
	Reference float64
}

// Console writes human-readable output to a writer, usually stdout.
type Console struct {
	out io.Writer
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Start announces a simulation run.
func (c *Console) Start(kind store.Kind, runID string) {
	fmt.Fprintln(c.out, text.Bold.Sprint("--- Soil monitoring started ---"))
	fmt.Fprintf(c.out, "Active store: %s\n", kind)
	if runID != "" {
		fmt.Fprintf(c.out, "Run: %s\n", runID)
	}
}

// Reading prints one reading with its decision. index is 1-based within the cycle.
func (c *Console) Reading(index int, r sensor.Reading, d irrigation.Decision) {
	verdict := "no irrigation"
	if d.ShouldIrrigate {
		verdict = text.Colors{text.Bold, text.FgBlue}.Sprint("*IRRIGATE*")
	}
	fmt.Fprintf(c.out, "[Reading %02d] %s -> DECISION: %s (reason: %s)\n", index, r, verdict, d.Reason)
}

// Cycle prints the end-of-cycle statistics, including the sorted dump of s.
// The median reads n/a when s is empty.
func (c *Console) Cycle(stats CycleStats, s store.Store) {
	fmt.Fprintln(c.out, text.FgYellow.Sprintf("* DATA PROCESSING (END OF CYCLE %d) *", stats.Cycle))
	s.PrintSorted(c.out)
	fmt.Fprintf(c.out, "%d smallest temps: %s\n", len(stats.Smallest), joinFloats(stats.Smallest))
	fmt.Fprintf(c.out, "%d largest temps: %s\n", len(stats.Largest), joinFloats(stats.Largest))
	if _, ok := store.MedianOf(s); ok {
		fmt.Fprintf(c.out, "Current median: %.1f C\n", stats.Median)
	} else {
		fmt.Fprintln(c.out, "Current median: n/a")
	}
	fmt.Fprintf(c.out, "Readings between %.1fC and %.1fC: %d occurrences.\n", stats.RangeLo, stats.RangeHi, stats.InRange)
	fmt.Fprintf(c.out, "Irrigation reference: %.1f C\n", stats.Reference)
}

// BenchTable renders benchmark results as a table, one row per
// (volume, store) pair. Cells show the average latency, followed by the P90
// estimate when a pair was repeated.
func (c *Console) BenchTable(results []bench.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Sample store benchmark")

	header := table.Row{"Volume", "Store"}
	for _, p := range bench.Phases() {
		header = append(header, string(p))
	}
	header = append(header, "Range hits")
	t.AppendHeader(header)

	for _, r := range results {
		row := table.Row{miscutils.FormatCount(r.Volume), string(r.Kind)}
		for _, p := range bench.Phases() {
			row = append(row, formatMetrics(r.Phase(p), r.Repetitions))
		}
		row = append(row, r.RangeHits)
		t.AppendRow(row)
	}

	t.Render()
}

func formatMetrics(m bench.Metrics, repetitions int) string {
	if repetitions > 1 {
		return miscutils.FormatDuration(m.Avg) + " (p90 " + miscutils.FormatDuration(m.P90) + ")"
	}
	return miscutils.FormatDuration(m.Avg)
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
