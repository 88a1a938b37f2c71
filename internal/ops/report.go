package ops

import (
	"fmt"
	"strings"
)

// Level is the severity of an operator report.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
)

// Report is what an operator hands back to its caller.
type Report struct {
	Level    Level
	Messages []string
	// Count is the number of targets the operator acted on.
	Count int
	// Failures holds per-target errors; the operator continued past them.
	Failures []error
}

func (r *Report) infof(format string, args ...interface{}) {
	if r.Level == "" {
		r.Level = LevelInfo
	}
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...interface{}) {
	r.Level = LevelWarning
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *Report) fail(err error) {
	r.Failures = append(r.Failures, err)
	opsf("%v", err)
}

// Warning reports whether the operator raised a warning.
func (r Report) Warning() bool {
	return r.Level == LevelWarning
}

func (r Report) String() string {
	level := r.Level
	if level == "" {
		level = LevelInfo
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, strings.Join(r.Messages, "; "))
	for _, err := range r.Failures {
		fmt.Fprintf(&b, "\n  failed: %v", err)
	}
	return b.String()
}
