package solver

import "fmt"

// Target names one mesh for SolveBatch.
type Target struct {
	Name  string
	Input Input
}

// Built is a successfully solved target.
type Built struct {
	Name   string
	Result *Result
}

// Failure records why one target could not be solved.
type Failure struct {
	Target string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Target, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// BatchResult collects per-target outcomes in input order.
type BatchResult struct {
	Built  []Built
	Failed []Failure
}

// SolveBatch solves every target independently. A failing target is
// recorded and skipped; it never aborts the rest of the batch.
func SolveBatch(targets []Target) BatchResult {
	var out BatchResult
	for _, t := range targets {
		res, err := Solve(t.Input)
		if err != nil {
			opsf("failed for %s: %v", t.Name, err)
			out.Failed = append(out.Failed, Failure{Target: t.Name, Err: err})
			continue
		}
		out.Built = append(out.Built, Built{Name: t.Name, Result: res})
	}
	return out
}
