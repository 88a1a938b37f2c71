package solver

import (
	"io"
	"log"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

var (
	opsLogger  *log.Logger
	diagLogger *log.Logger
)

// SetLogWriters configures the logging streams for the solver package.
// The trace writer is accepted for symmetry with sibling packages; the
// solver has no per-point telemetry. Pass nil to disable a stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = lattice.NewLogger("[solver] ", ops)
	diagLogger = lattice.NewLogger("[solver] ", diag)
}

// opsf logs to the ops stream (per-target failures).
func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

// diagf logs to the diag stream (chosen resolutions and lock axes).
func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}
