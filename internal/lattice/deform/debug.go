package deform

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

// SetLogWriters configures the three logging streams for the deform package.
// Pass nil for any writer to disable that stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = lattice.NewLogger("[deform] ", ops)
	diagLogger = lattice.NewLogger("[deform] ", diag)
	traceLogger = lattice.NewLogger("[deform] ", trace)
}

// opsf logs to the ops stream (skipped targets, rejected parameters).
func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

// diagf logs to the diag stream (per-target pass summary).
func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

// tracef logs to the trace stream (per-line telemetry).
func tracef(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Printf(format, args...)
	}
}
