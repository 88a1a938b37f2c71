package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

const (
	// SizeEpsilon is the floor applied to degenerate box extents so the
	// placement transform stays invertible.
	SizeEpsilon = 1e-4

	// DimensionTolerance decides when an extent counts as the minimum
	// dimension and receives the base resolution unchanged.
	DimensionTolerance = 0.001

	// RatioEpsilon guards the extent ratio against a vanishing minimum.
	RatioEpsilon = 1e-8

	// LockedAxisResolution is the fixed point count on a locked axis.
	LockedAxisResolution = 2

	// DefaultBaseResolution is the base used when none is configured.
	DefaultBaseResolution = 6
)

// ErrInvalidInput wraps every rejection from Solve.
var ErrInvalidInput = errors.New("solver: invalid input")

// Input describes one mesh to fit.
type Input struct {
	// Bounds is the mesh's bounding box in its local space.
	Bounds lattice.BoundingBox
	// World is the mesh's local-to-world matrix.
	World mgl64.Mat4
	// BaseResolution is the point count for the smallest active extent.
	// It is raised to at least 2 and rounded up to an even number.
	BaseResolution int
	// LockAxis enables pinning one local axis at two points.
	LockAxis bool
	// LockWorldAxis selects the world direction the locked axis follows.
	LockWorldAxis lattice.Axis
	// Interpolation is stamped on the grid; empty selects the default.
	Interpolation lattice.Interpolation
}

// Result is a solved lattice ready to be attached to its mesh.
type Result struct {
	Grid        *lattice.Grid
	World       mgl64.Mat4
	Lock        lattice.LockMetadata
	LocalCenter r3.Vec
	LocalSize   r3.Vec
}

// Solve computes the grid and placement for one mesh.
func Solve(in Input) (*Result, error) {
	if err := in.Bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !lattice.IsUsableTransform(in.World) {
		return nil, fmt.Errorf("%w: world matrix is not an invertible affine transform", ErrInvalidInput)
	}
	mode := in.Interpolation
	if mode == "" {
		mode = lattice.DefaultInterpolation
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: interpolation %q", ErrInvalidInput, mode)
	}

	worldAxis := in.LockWorldAxis
	if !worldAxis.Valid() {
		worldAxis = lattice.AxisX
	}

	size := in.Bounds.Size()
	size = r3.Vec{X: SafeSize(size.X), Y: SafeSize(size.Y), Z: SafeSize(size.Z)}
	center := in.Bounds.Center()

	locked := lattice.NoLockedAxis
	if in.LockAxis {
		locked = LockedAxisFor(in.World, worldAxis)
	}

	base := NormaliseBaseResolution(in.BaseResolution)
	res := Resolutions(size, base, locked)

	grid, err := lattice.NewGrid(res, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	diagf("solved %s (base=%d locked=%d world_axis=%s size=%v)", res, base, locked, worldAxis, size)

	return &Result{
		Grid:  grid,
		World: lattice.PlacementTransform(in.World, center, size),
		Lock: lattice.LockMetadata{
			Enabled:   in.LockAxis,
			AxisIndex: locked,
			WorldAxis: worldAxis,
		},
		LocalCenter: center,
		LocalSize:   size,
	}, nil
}

// NormaliseBaseResolution clamps base to at least 2 and rounds odd values
// up to the next even number.
func NormaliseBaseResolution(base int) int {
	if base < lattice.MinAxisResolution {
		base = lattice.MinAxisResolution
	}
	if base%2 == 1 {
		base++
	}
	return base
}

// SafeSize returns v unless its magnitude is at or below SizeEpsilon, in
// which case SizeEpsilon is returned.
func SafeSize(v float64) float64 {
	if math.Abs(v) > SizeEpsilon {
		return v
	}
	return SizeEpsilon
}

// LockedAxisFor returns the local axis whose normalised world direction
// is most parallel (or anti-parallel) to the chosen world axis. Ties go
// to the lowest index.
func LockedAxisFor(world mgl64.Mat4, axis lattice.Axis) int {
	dir := lattice.WorldAxisVector(axis)
	best, bestScore := 0, -1.0
	for i, col := range lattice.LocalAxes(world) {
		score := 0.0
		if l := col.Len(); l > 0 {
			score = math.Abs(col.Mul(1 / l).Dot(dir))
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// Resolutions returns the per-axis point counts for a box of the given
// (already floored) size. locked is the pinned axis or NoLockedAxis.
// Counts are even and at least 2; there is no upper bound.
func Resolutions(size r3.Vec, base, locked int) lattice.Resolution {
	dims := [3]float64{size.X, size.Y, size.Z}

	minDim := math.Inf(1)
	for i, d := range dims {
		if i == locked {
			continue
		}
		minDim = math.Min(minDim, d)
	}

	var res lattice.Resolution
	for i, d := range dims {
		switch {
		case i == locked:
			res[i] = LockedAxisResolution
		case math.Abs(d-minDim) < DimensionTolerance:
			res[i] = atLeastMin(base)
		default:
			ratio := 1.0
			if minDim > RatioEpsilon {
				ratio = d / minDim
			}
			even := int(math.RoundToEven(ratio*float64(base)/2)) * 2
			res[i] = atLeastMin(even)
		}
	}
	return res
}

func atLeastMin(n int) int {
	if n < lattice.MinAxisResolution {
		return lattice.MinAxisResolution
	}
	return n
}
