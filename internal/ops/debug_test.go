package ops

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReportFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriters(&buf, nil, nil)
	defer SetLogWriters(nil, nil, nil)

	var rep Report
	rep.fail(errors.New("Lattice_Cube: bad grid"))

	if len(rep.Failures) != 1 {
		t.Fatalf("expected one failure, got %d", len(rep.Failures))
	}
	output := buf.String()
	if !strings.Contains(output, "[ops] ") || !strings.Contains(output, "Lattice_Cube: bad grid") {
		t.Errorf("unexpected ops output %q", output)
	}
}

func TestSetLogWriters_Disable(t *testing.T) {
	SetLogWriters(nil, nil, nil)
	if opsLogger != nil || diagLogger != nil {
		t.Fatal("loggers should be nil after SetLogWriters(nil, nil, nil)")
	}

	// Should not panic.
	opsf("no-op")
	diagf("no-op")
}
