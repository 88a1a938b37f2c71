package lattice

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// MinAxisResolution is the smallest number of control points allowed on
// any axis.
const MinAxisResolution = 2

// Resolution is the control-point count along the local u, v and w axes.
type Resolution [3]int

// Validate returns ErrInvalidResolution if any axis is below two.
func (r Resolution) Validate() error {
	for axis, n := range r {
		if n < MinAxisResolution {
			return fmt.Errorf("%w: axis %d has %d points", ErrInvalidResolution, axis, n)
		}
	}
	return nil
}

// Count returns the total number of control points.
func (r Resolution) Count() int {
	return r[0] * r[1] * r[2]
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%dx%d", r[0], r[1], r[2])
}

// Grid is a lattice's control-point arrangement in local unit-cube space.
//
// Points are stored with u varying fastest, then v, then w:
//
//	index = w*(U*V) + v*U + u
type Grid struct {
	Resolution    Resolution
	Points        []r3.Vec
	Interpolation Interpolation
}

// NewGrid returns a grid with every point at its uniform unit-cube
// position. An empty mode selects DefaultInterpolation.
func NewGrid(res Resolution, mode Interpolation) (*Grid, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = DefaultInterpolation
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInterpolation, mode)
	}
	g := &Grid{
		Resolution:    res,
		Points:        make([]r3.Vec, res.Count()),
		Interpolation: mode,
	}
	g.ResetToUniform()
	return g, nil
}

// Validate checks the resolution and that the point slice matches it.
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrPointCount)
	}
	if err := g.Resolution.Validate(); err != nil {
		return err
	}
	if len(g.Points) != g.Resolution.Count() {
		return fmt.Errorf("%w: have %d, want %d", ErrPointCount, len(g.Points), g.Resolution.Count())
	}
	return nil
}

// Index returns the flat index of point (u, v, w).
func (g *Grid) Index(u, v, w int) int {
	return w*(g.Resolution[0]*g.Resolution[1]) + v*g.Resolution[0] + u
}

// Coords is the inverse of Index.
func (g *Grid) Coords(i int) (u, v, w int) {
	plane := g.Resolution[0] * g.Resolution[1]
	w = i / plane
	rem := i % plane
	v = rem / g.Resolution[0]
	u = rem % g.Resolution[0]
	return u, v, w
}

// At returns the point at (u, v, w).
func (g *Grid) At(u, v, w int) r3.Vec {
	return g.Points[g.Index(u, v, w)]
}

// Set stores p at (u, v, w).
func (g *Grid) Set(u, v, w int, p r3.Vec) {
	g.Points[g.Index(u, v, w)] = p
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		Resolution:    g.Resolution,
		Points:        make([]r3.Vec, len(g.Points)),
		Interpolation: g.Interpolation,
	}
	copy(out.Points, g.Points)
	return out
}

// UniformCoordinate returns the unit-cube coordinate of index i on an axis
// with n points: -0.5 + i/(n-1).
func UniformCoordinate(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return -0.5 + float64(i)/float64(n-1)
}

// ResetToUniform writes every point back to its uniform unit-cube
// position. Interpolation and resolution are left untouched.
func (g *Grid) ResetToUniform() {
	res := g.Resolution
	for w := 0; w < res[2]; w++ {
		z := UniformCoordinate(w, res[2])
		for v := 0; v < res[1]; v++ {
			y := UniformCoordinate(v, res[1])
			for u := 0; u < res[0]; u++ {
				g.Points[g.Index(u, v, w)] = r3.Vec{X: UniformCoordinate(u, res[0]), Y: y, Z: z}
			}
		}
	}
	tracef("reset %s grid to uniform", res)
}

// LineCount returns how many lines run along axis: the product of the
// other two resolutions.
func (g *Grid) LineCount(axis int) int {
	return g.Resolution.Count() / g.Resolution[axis]
}

// LineIndices returns the flat indices of line number line along axis,
// ordered by the along-axis index. Lines are numbered with the lower
// remaining axis varying fastest.
func (g *Grid) LineIndices(axis, line int, dst []int) []int {
	dst = dst[:0]
	res := g.Resolution
	var a, b int
	switch axis {
	case 0:
		a, b = line%res[1], line/res[1] // v, w
		for u := 0; u < res[0]; u++ {
			dst = append(dst, g.Index(u, a, b))
		}
	case 1:
		a, b = line%res[0], line/res[0] // u, w
		for v := 0; v < res[1]; v++ {
			dst = append(dst, g.Index(a, v, b))
		}
	case 2:
		a, b = line%res[0], line/res[0] // u, v
		for w := 0; w < res[2]; w++ {
			dst = append(dst, g.Index(a, b, w))
		}
	}
	return dst
}

// Extent returns the axis-aligned box enclosing every control point.
func (g *Grid) Extent() BoundingBox {
	if len(g.Points) == 0 {
		return BoundingBox{}
	}
	box := BoundingBox{Min: g.Points[0], Max: g.Points[0]}
	for _, p := range g.Points[1:] {
		box = box.Extend(p)
	}
	return box
}

// Component returns the axis-th coordinate of p (0=X, 1=Y, 2=Z).
func Component(p r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// WithComponent returns p with its axis-th coordinate replaced by v.
func WithComponent(p r3.Vec, axis int, v float64) r3.Vec {
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}
