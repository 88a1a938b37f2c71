package ops

import (
	"fmt"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
	"github.com/banshee-data/bevel.deformer/internal/lattice/deform"
	"github.com/banshee-data/bevel.deformer/internal/scene"
)

// TargetsFor resolves the lock state of each lattice. Stored metadata is
// preferred; a lattice whose metadata cannot be read falls back to
// inference from its resolution.
func TargetsFor(sc *scene.Scene, lats []*scene.Object) []deform.Target {
	targets := make([]deform.Target, 0, len(lats))
	for _, lat := range lats {
		kv, err := sc.LoadMetadata(lat)
		if err != nil {
			opsf("%s: load metadata: %v", lat.Name, err)
			kv = nil
		}
		var res lattice.Resolution
		if lat.Grid != nil {
			res = lat.Grid.Resolution
		}
		axis, locked := lattice.ResolveLockedAxis(kv, res)
		targets = append(targets, deform.Target{
			Name:       lat.Name,
			Grid:       lat.Grid,
			LockedAxis: axis,
			Locked:     locked,
		})
	}
	return targets
}

func addFailures(rep *Report, failed []deform.Failure) {
	for _, f := range failed {
		rep.fail(f)
	}
}

// DeformSelected runs the deformation engine over the gathered targets.
// Invalid parameters are returned as an error and leave every grid as is.
func DeformSelected(sc *scene.Scene, p deform.Params) (Report, error) {
	var rep Report
	lats := GatherTargetLattices(sc)
	if len(lats) == 0 {
		rep.warnf("No lattices found for selected objects")
		return rep, nil
	}
	res, err := deform.Apply(TargetsFor(sc, lats), p)
	if err != nil {
		return rep, fmt.Errorf("deform: %w", err)
	}
	addFailures(&rep, res.Failed)
	rep.Count = res.Processed
	if len(res.Failed) > 0 {
		rep.warnf("Deformed %d lattice(s), %d failed", res.Processed, len(res.Failed))
	} else {
		rep.infof("Deformed %d lattice(s)", res.Processed)
	}
	return rep, nil
}

// ResetSelected restores the gathered targets to the uniform layout and
// returns current with the shaping sliders neutralised.
func ResetSelected(sc *scene.Scene, current deform.Params) (Report, deform.Params) {
	var rep Report
	neutral := current.Neutral()
	lats := GatherTargetLattices(sc)
	if len(lats) == 0 {
		rep.warnf("No lattices found for selected objects")
		return rep, current
	}
	res, err := deform.Reset(TargetsFor(sc, lats))
	if err != nil {
		rep.warnf("%v", err)
		return rep, current
	}
	addFailures(&rep, res.Failed)
	rep.Count = res.Processed
	rep.infof("Reset %d lattice(s) to uniform", res.Processed)
	if len(res.Failed) > 0 {
		rep.Level = LevelWarning
	}
	return rep, neutral
}
