package ops

import (
	"io"
	"log"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

var (
	opsLogger  *log.Logger
	diagLogger *log.Logger
)

// SetLogWriters configures the ops and diag streams for operators.
// Pass nil to disable a stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = lattice.NewLogger("[ops] ", ops)
	diagLogger = lattice.NewLogger("[ops] ", diag)
}

func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}
