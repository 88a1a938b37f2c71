package deform

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

const (
	// Epsilon is the magnitude below which shift and offset values count
	// as zero.
	Epsilon = 1e-8

	// MinShiftResolution is the shortest line the shift pass touches.
	MinShiftResolution = 4
)

// lerp returns a*(1-t) + b*t, which lands exactly on b at t=1.
func lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(r3.Scale(1-t, a), r3.Scale(t, b))
}

// ShiftAndRelaxLine moves the two near-boundary anchors of one line and
// redistributes the interior evenly between them.
//
// For shift >= 0 index 1 moves toward index 0 and index n-2 toward n-1.
// For shift < 0 index 1 moves toward index 2 and index n-2 toward n-3,
// each by |shift|. When n > 4, points 2..n-3 are then placed at
// t=(k-1)/(n-3) between the two moved anchors. Lines shorter than four
// points, or a shift below Epsilon in magnitude, are left unchanged.
func ShiftAndRelaxLine(coords []r3.Vec, shift float64) {
	n := len(coords)
	if n < MinShiftResolution || math.Abs(shift) < Epsilon {
		return
	}

	if shift >= 0 {
		coords[1] = lerp(coords[1], coords[0], shift)
		coords[n-2] = lerp(coords[n-2], coords[n-1], shift)
	} else {
		t := math.Abs(shift)
		coords[1] = lerp(coords[1], coords[2], t)
		coords[n-2] = lerp(coords[n-2], coords[n-3], t)
	}

	if n <= MinShiftResolution {
		return
	}

	start, end := coords[1], coords[n-2]
	steps := float64(n - 3)
	for k := 2; k <= n-3; k++ {
		coords[k] = lerp(start, end, float64(k-1)/steps)
	}
}

// ShiftPass runs ShiftAndRelaxLine over every line of the grid along u,
// then v, then w. It reports which axes were shifted: an axis counts only
// when the shift is non-zero and its resolution is at least four.
func ShiftPass(g *lattice.Grid, shift float64) [3]bool {
	var shifted [3]bool
	if math.Abs(shift) <= Epsilon {
		return shifted
	}

	var idx []int
	var line []r3.Vec
	for axis := 0; axis < 3; axis++ {
		if g.Resolution[axis] < MinShiftResolution {
			continue
		}
		shifted[axis] = true
		for l := 0; l < g.LineCount(axis); l++ {
			idx = g.LineIndices(axis, l, idx)
			line = line[:0]
			for _, i := range idx {
				line = append(line, g.Points[i])
			}
			ShiftAndRelaxLine(line, shift)
			for k, i := range idx {
				g.Points[i] = line[k]
			}
		}
		tracef("shifted %d lines along axis %d by %.4f", g.LineCount(axis), axis, shift)
	}
	return shifted
}

// RampFactor is the offset weight for index i on an axis with n points:
// zero when n < 4 or i <= 1, one when i >= n-2, and (i-1)/(n-3) between.
func RampFactor(i, n int) float64 {
	switch {
	case n < MinShiftResolution:
		return 0
	case i <= 1:
		return 0
	case i >= n-2:
		return 1
	default:
		return float64(i-1) / float64(n-3)
	}
}

// OffsetPass translates every point by offset[axis] * RampFactor along
// that axis. The locked axis, if any, receives no offset. It reports
// whether any offset component exceeded Epsilon; when none does, the
// grid is left untouched.
func OffsetPass(g *lattice.Grid, offset [3]float64, lockedAxis int, locked bool) bool {
	active := false
	for _, o := range offset {
		if math.Abs(o) > Epsilon {
			active = true
			break
		}
	}
	if !active {
		return false
	}
	if locked && lockedAxis >= 0 && lockedAxis < 3 {
		offset[lockedAxis] = 0
	}

	var ramps [3][]float64
	for axis := 0; axis < 3; axis++ {
		n := g.Resolution[axis]
		ramps[axis] = make([]float64, n)
		for i := range ramps[axis] {
			ramps[axis][i] = RampFactor(i, n)
		}
	}

	for i, p := range g.Points {
		u, v, w := g.Coords(i)
		g.Points[i] = r3.Vec{
			X: p.X + offset[0]*ramps[0][u],
			Y: p.Y + offset[1]*ramps[1][v],
			Z: p.Z + offset[2]*ramps[2][w],
		}
	}
	return true
}

// ScalePass multiplies each point's coordinate on every shifted axis by
// scale. It reports whether any coordinate was touched; a scale of
// exactly 1 or no shifted axes is a no-op.
func ScalePass(g *lattice.Grid, scale float64, shifted [3]bool) bool {
	factors := [3]float64{1, 1, 1}
	for axis, s := range shifted {
		if s {
			factors[axis] = scale
		}
	}
	if factors == [3]float64{1, 1, 1} {
		return false
	}
	for i, p := range g.Points {
		g.Points[i] = r3.Vec{X: p.X * factors[0], Y: p.Y * factors[1], Z: p.Z * factors[2]}
	}
	return true
}
