package ops

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/banshee-data/bevel.deformer/internal/config"
	"github.com/banshee-data/bevel.deformer/internal/lattice"
	"github.com/banshee-data/bevel.deformer/internal/lattice/deform"
	"github.com/banshee-data/bevel.deformer/internal/lattice/solver"
)

// LatticeOptions are the solver inputs shared by every lattice one
// CreateLattices call builds.
type LatticeOptions struct {
	BaseResolution int
	LockAxis       bool
	LockWorldAxis  lattice.Axis
	Interpolation  lattice.Interpolation
}

// DefaultLatticeOptions mirrors the shipped settings.
func DefaultLatticeOptions() LatticeOptions {
	return LatticeOptions{
		BaseResolution: solver.DefaultBaseResolution,
		LockAxis:       true,
		LockWorldAxis:  lattice.AxisX,
		Interpolation:  lattice.DefaultInterpolation,
	}
}

func (o LatticeOptions) input(bounds lattice.BoundingBox, world mgl64.Mat4) solver.Input {
	return solver.Input{
		Bounds:         bounds,
		World:          world,
		BaseResolution: o.BaseResolution,
		LockAxis:       o.LockAxis,
		LockWorldAxis:  o.LockWorldAxis,
		Interpolation:  o.Interpolation,
	}
}

// LatticeOptionsFromSettings converts the lattice section of s.
func LatticeOptionsFromSettings(s *config.Settings) (LatticeOptions, error) {
	axis, err := lattice.ParseAxis(s.GetLockedWorldAxis())
	if err != nil {
		return LatticeOptions{}, fmt.Errorf("locked_world_axis: %w", err)
	}
	mode, err := lattice.ParseInterpolation(s.GetInterpolation())
	if err != nil {
		return LatticeOptions{}, fmt.Errorf("interpolation: %w", err)
	}
	return LatticeOptions{
		BaseResolution: s.GetBaseResolution(),
		LockAxis:       s.GetLockedAxisEnabled(),
		LockWorldAxis:  axis,
		Interpolation:  mode,
	}, nil
}

// ParamsFromSettings converts the deform section of s.
func ParamsFromSettings(s *config.Settings) deform.Params {
	return deform.Params{
		ScaleFactor:    s.GetScaleFactor(),
		ShiftFactor:    s.GetShiftFactor(),
		OffsetX:        s.GetOffsetX(),
		OffsetY:        s.GetOffsetY(),
		OffsetZ:        s.GetOffsetZ(),
		ResetToUniform: s.GetResetToUniform(),
	}
}
