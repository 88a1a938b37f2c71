package lattice

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogWriters_Enable(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriters(&buf, nil, nil)
	defer SetLogWriters(nil, nil, nil)

	if opsLogger == nil {
		t.Fatal("opsLogger should be non-nil after SetLogWriters with a writer")
	}
	if diagLogger != nil || traceLogger != nil {
		t.Fatal("diag and trace should stay disabled")
	}
}

func TestSetLogWriters_Disable(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriters(&buf, &buf, &buf)
	SetLogWriters(nil, nil, nil)

	if opsLogger != nil || diagLogger != nil || traceLogger != nil {
		t.Fatal("loggers should be nil after SetLogWriters(nil, nil, nil)")
	}
}

func TestOpsf_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriters(&buf, nil, nil)
	defer SetLogWriters(nil, nil, nil)

	opsf("hello %s %d", "world", 42)

	output := buf.String()
	if !strings.Contains(output, "hello world 42") {
		t.Errorf("expected output to contain 'hello world 42', got %q", output)
	}
	if !strings.Contains(output, "[lattice]") {
		t.Errorf("expected output to contain '[lattice]' prefix, got %q", output)
	}
}

func TestDecodeLockMetadata_LogsUnparseable(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriters(&buf, nil, nil)
	defer SetLogWriters(nil, nil, nil)

	if _, ok := DecodeLockMetadata(map[string]string{MetaLockedAxisEnabled: "maybe"}); ok {
		t.Fatal("expected ok=false for an unparseable flag")
	}
	if !strings.Contains(buf.String(), MetaLockedAxisEnabled) {
		t.Errorf("expected the rejected key in the ops log, got %q", buf.String())
	}
}

func TestStreams_NilLoggers(t *testing.T) {
	SetLogWriters(nil, nil, nil)

	// Should not panic.
	opsf("no-op %d", 1)
	diagf("no-op %d", 2)
	tracef("no-op %d", 3)
}

func TestNewLogger(t *testing.T) {
	if NewLogger("[x] ", nil) != nil {
		t.Error("NewLogger with a nil writer should return nil")
	}
	var buf bytes.Buffer
	NewLogger("[x] ", &buf).Printf("ok")
	if !strings.HasPrefix(buf.String(), "[x] ") {
		t.Errorf("expected prefix, got %q", buf.String())
	}
}
