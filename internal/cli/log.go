// Package cli implements the sankeyflow command-line interface.
//
// The commands read flow data in JSON, CSV or TSV, run it through the
// layout pipeline and write geometry, rendered diagrams or normalised
// data. Settings come from built-in defaults, then the config file, then
// the environment, then command flags.
//
// # Commands
//
//   - parse: validate flow data and convert it between formats
//   - layout: compute the geometry payload as JSON
//   - render: produce SVG, PNG, PDF, JSON scene, DOT or node-link output
//   - examples: list, show or interactively pick a bundled dataset
//   - schemes: list colour schemes with swatches
//   - serve: run the HTTP API
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at the given level with
// "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures an operation and logs its completion with the elapsed
// time. It is meant for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, for
// example "Rendered 3 files (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
