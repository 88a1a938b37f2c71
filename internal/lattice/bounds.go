package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoundingBox is an axis-aligned box in a mesh's local space.
type BoundingBox struct {
	Min r3.Vec
	Max r3.Vec
}

// BoundsFromCorners returns the box enclosing the given corner points,
// typically the eight local bound-box corners reported by the host.
func BoundsFromCorners(corners []r3.Vec) (BoundingBox, error) {
	if len(corners) == 0 {
		return BoundingBox{}, fmt.Errorf("%w: no corners", ErrInvalidBounds)
	}
	box := BoundingBox{Min: corners[0], Max: corners[0]}
	for _, c := range corners[1:] {
		box = box.Extend(c)
	}
	return box, box.Validate()
}

// Extend grows the box to include p.
func (b BoundingBox) Extend(p r3.Vec) BoundingBox {
	b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	return b
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Size returns the per-axis extent of the box.
func (b BoundingBox) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Corners returns the eight corners, min corner first.
func (b BoundingBox) Corners() [8]r3.Vec {
	var out [8]r3.Vec
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out[i] = c
	}
	return out
}

// Validate returns ErrInvalidBounds for non-finite or inverted boxes.
// Degenerate (zero-extent) boxes are valid.
func (b BoundingBox) Validate() error {
	if !IsFinite(b.Min) || !IsFinite(b.Max) {
		return fmt.Errorf("%w: non-finite corner", ErrInvalidBounds)
	}
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
		return fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidBounds, b.Min, b.Max)
	}
	return nil
}

// IsFinite reports whether every component of p is finite.
func IsFinite(p r3.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}
