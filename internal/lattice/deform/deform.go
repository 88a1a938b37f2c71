package deform

import (
	"errors"
	"fmt"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

// ErrNoTargets is returned by Apply and Reset when no lattice is targeted.
var ErrNoTargets = errors.New("deform: no lattices targeted")

// Target is one lattice grid to deform, with its resolved lock state.
type Target struct {
	Name       string
	Grid       *lattice.Grid
	LockedAxis int
	Locked     bool
}

// Failure records a target that could not be processed.
type Failure struct {
	Target string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Target, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarises one Apply or Reset call.
type Report struct {
	// Processed counts targets whose grids were run through the pipeline.
	Processed int
	// Failed lists targets skipped because their grid was malformed.
	Failed []Failure
}

// Outcome describes which passes changed a single grid.
type Outcome struct {
	Reset   bool
	Shifted [3]bool
	Offset  bool
	Scaled  bool
}

// Process runs the full pipeline on one grid. Parameters are assumed
// valid; Apply validates them once for the whole batch.
func Process(t Target, p Params) (Outcome, error) {
	if err := t.Grid.Validate(); err != nil {
		return Outcome{}, err
	}
	var out Outcome
	if p.ResetToUniform {
		t.Grid.ResetToUniform()
		out.Reset = true
	}
	out.Shifted = ShiftPass(t.Grid, p.ShiftFactor)
	out.Offset = OffsetPass(t.Grid, p.Offset(), t.LockedAxis, t.Locked)
	out.Scaled = ScalePass(t.Grid, p.ScaleFactor, out.Shifted)
	return out, nil
}

// Apply deforms every target grid in place. Invalid parameters reject the
// whole call before any grid changes. A malformed grid is recorded in the
// report and skipped.
func Apply(targets []Target, p Params) (Report, error) {
	if len(targets) == 0 {
		return Report{}, ErrNoTargets
	}
	if err := p.Validate(); err != nil {
		opsf("rejected parameters: %v", err)
		return Report{}, err
	}

	var rep Report
	for _, t := range targets {
		out, err := Process(t, p)
		if err != nil {
			opsf("skipping %s: %v", t.Name, err)
			rep.Failed = append(rep.Failed, Failure{Target: t.Name, Err: err})
			continue
		}
		rep.Processed++
		diagf("%s %s: reset=%v shifted=%v offset=%v scaled=%v",
			t.Name, t.Grid.Resolution, out.Reset, out.Shifted, out.Offset, out.Scaled)
	}
	return rep, nil
}

// Reset restores every target grid to the uniform layout.
func Reset(targets []Target) (Report, error) {
	if len(targets) == 0 {
		return Report{}, ErrNoTargets
	}
	var rep Report
	for _, t := range targets {
		if err := t.Grid.Validate(); err != nil {
			opsf("skipping %s: %v", t.Name, err)
			rep.Failed = append(rep.Failed, Failure{Target: t.Name, Err: err})
			continue
		}
		t.Grid.ResetToUniform()
		rep.Processed++
	}
	diagf("reset %d lattice(s) to uniform", rep.Processed)
	return rep, nil
}
