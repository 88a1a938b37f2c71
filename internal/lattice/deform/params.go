package deform

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when a parameter is out of range or not
// finite. Grids are never touched when parameters are rejected.
var ErrInvalidParams = errors.New("deform: invalid parameters")

// Default parameter values.
const (
	DefaultScaleFactor = 0.95
	DefaultShiftFactor = 0.5
)

// Params controls one deformation.
type Params struct {
	// ScaleFactor multiplies coordinates on shifted axes. Must be >= 0.
	ScaleFactor float64
	// ShiftFactor in [-1, 1]. Positive values pull the second row toward
	// the boundary; negative values pull it toward the interior.
	ShiftFactor float64
	// OffsetX, OffsetY and OffsetZ are ramped translations in lattice
	// units. Unbounded.
	OffsetX float64
	OffsetY float64
	OffsetZ float64
	// ResetToUniform restores the uniform layout before the other passes.
	ResetToUniform bool
}

// DefaultParams returns the values a fresh session starts with.
func DefaultParams() Params {
	return Params{
		ScaleFactor:    DefaultScaleFactor,
		ShiftFactor:    DefaultShiftFactor,
		ResetToUniform: true,
	}
}

// Neutral returns p with scale 1 and zero shift and offsets. The reset
// flag is kept. Applying a neutral set with reset enabled leaves a grid
// uniform.
func (p Params) Neutral() Params {
	p.ScaleFactor = 1
	p.ShiftFactor = 0
	p.OffsetX, p.OffsetY, p.OffsetZ = 0, 0, 0
	return p
}

// Offset returns the three offsets as an array indexed by axis.
func (p Params) Offset() [3]float64 {
	return [3]float64{p.OffsetX, p.OffsetY, p.OffsetZ}
}

// Validate reports out-of-range or non-finite values.
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"scale_factor": p.ScaleFactor,
		"shift_factor": p.ShiftFactor,
		"offset_x":     p.OffsetX,
		"offset_y":     p.OffsetY,
		"offset_z":     p.OffsetZ,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, name)
		}
	}
	if p.ScaleFactor < 0 {
		return fmt.Errorf("%w: scale_factor %v < 0", ErrInvalidParams, p.ScaleFactor)
	}
	if p.ShiftFactor < -1 || p.ShiftFactor > 1 {
		return fmt.Errorf("%w: shift_factor %v outside [-1, 1]", ErrInvalidParams, p.ShiftFactor)
	}
	return nil
}
