// Package decisionlog appends irrigation decisions to a plain-text file.
//
// The log is meant for people, not programs: every record is a small block of
// text and nothing ever reads it back. It is also best effort. A record that
// cannot be written is reported through the logger and dropped, and the
// caller carries on.
package decisionlog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/shivanshkc/soilstat/internal/logging"
	"github.com/shivanshkc/soilstat/pkg/irrigation"
	"github.com/shivanshkc/soilstat/pkg/sensor"
)

const separator = "------------------------------------------"

// timeLayout matches the classic ctime rendering, e.g. "Mon Jan  2 15:04:05 2006".
const timeLayout = "Mon Jan _2 15:04:05 2006"

// Writer appends decision records to a file.
type Writer struct {
	path  string
	runID uuid.UUID
	log   *slog.Logger
}

// New returns a Writer appending to path. Records are tagged with a fresh run
// ID so that several runs sharing a file can be told apart. An empty path
// yields a Writer that drops everything.
func New(path string) *Writer {
	return &Writer{
		path:  path,
		runID: uuid.New(),
		log:   logging.Component("decisionlog"),
	}
}

// RunID returns the identifier stamped on every record of this Writer.
func (w *Writer) RunID() uuid.UUID { return w.runID }

// Append writes one record. It reports whether the record reached the file;
// failures are logged, never returned.
//
// The file is opened and closed per record so that an external rotation or
// deletion between records is picked up.
func (w *Writer) Append(r sensor.Reading, d irrigation.Decision) bool {
	if w.path == "" {
		return false
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		w.log.Warn("failed to open decision log", "path", w.path, "error", err)
		return false
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(w.format(r, d)); err != nil {
		w.log.Warn("failed to write decision record", "path", w.path, "error", err)
		return false
	}
	return true
}

// format renders a record block.
func (w *Writer) format(r sensor.Reading, d irrigation.Decision) string {
	answer := "NO"
	if d.ShouldIrrigate {
		answer = "YES"
	}

	var sb strings.Builder
	sb.WriteString(separator + "\n")
	fmt.Fprintf(&sb, "Time: %s\n", d.Time.Format(timeLayout))
	fmt.Fprintf(&sb, "Run: %s\n", w.runID)
	fmt.Fprintf(&sb, "Reading: %s\n", r)
	fmt.Fprintf(&sb, "Reason: %s\n", d.Reason)
	fmt.Fprintf(&sb, "IRRIGATE: %s\n", answer)
	return sb.String()
}
