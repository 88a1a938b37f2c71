package liveupdate

import (
	"io"
	"log"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

var (
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures the three logging streams for the liveupdate package.
// Pass nil for any writer to disable that stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = lattice.NewLogger("[liveupdate] ", ops)
	diagLogger = lattice.NewLogger("[liveupdate] ", diag)
	traceLogger = lattice.NewLogger("[liveupdate] ", trace)
}

// opsf logs to the ops stream (failed or crashed runs).
func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

// diagf logs to the diag stream (lifecycle: stop, flush).
func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

// tracef logs to the trace stream (every notify and fire).
func tracef(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Printf(format, args...)
	}
}
