// Package logging configures the application's structured logger.
//
// Diagnostics go through log/slog on stderr so that they never interleave
// with the console report on stdout. Components ask for a tagged logger:
//
//	log := logging.Component("simulation")
//	log.Info("cycle processed", "cycle", 3, "median", 26.4)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init installs a logger writing to w at the given level, as JSON when
// jsonFormat is set and as logfmt-style text otherwise.
func Init(w io.Writer, level slog.Level, jsonFormat bool) {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	SetLogger(slog.New(handler))
}

// SetLogger installs l as the application logger and slog default.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
	slog.SetDefault(l)
}

// Discard silences all logging. Tests use it to keep output clean.
func Discard() {
	SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Logger returns the application logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return Logger().With("component", name)
}

// ParseLevel converts debug, info, warn or error into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
