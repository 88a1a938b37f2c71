package lattice

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// SingularTolerance is the smallest |det| accepted for an object's
// world matrix before its axes are considered collapsed.
const SingularTolerance = 1e-12

// WorldAxisVector returns the unit world direction for a.
// Out-of-range values map to X.
func WorldAxisVector(a Axis) mgl64.Vec3 {
	switch a {
	case AxisY:
		return mgl64.Vec3{0, 1, 0}
	case AxisZ:
		return mgl64.Vec3{0, 0, 1}
	default:
		return mgl64.Vec3{1, 0, 0}
	}
}

// TransformPoint applies the affine transform m to p.
func TransformPoint(m mgl64.Mat4, p r3.Vec) r3.Vec {
	v := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// PlacementTransform returns world · T(center) · S(size): the matrix that
// carries the unit cube onto a box of the given centre and size expressed
// in the frame described by world.
func PlacementTransform(world mgl64.Mat4, center, size r3.Vec) mgl64.Mat4 {
	return world.
		Mul4(mgl64.Translate3D(center.X, center.Y, center.Z)).
		Mul4(mgl64.Scale3D(size.X, size.Y, size.Z))
}

// LocalAxes returns the three columns of the upper-left 3x3 block of m:
// the object's local X, Y and Z axes in world space, unnormalised.
func LocalAxes(m mgl64.Mat4) [3]mgl64.Vec3 {
	m3 := m.Mat3()
	return [3]mgl64.Vec3{m3.Col(0), m3.Col(1), m3.Col(2)}
}

// IsUsableTransform reports whether m is finite, has an affine bottom row
// and a non-singular linear part.
func IsUsableTransform(m mgl64.Mat4) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if m.At(3, 0) != 0 || m.At(3, 1) != 0 || m.At(3, 2) != 0 || m.At(3, 3) != 1 {
		return false
	}
	return math.Abs(m.Mat3().Det()) > SingularTolerance
}

// MatrixFromRows builds a matrix from row-major values, the layout used
// by scene documents.
func MatrixFromRows(rows [4][4]float64) mgl64.Mat4 {
	var m mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, rows[r][c])
		}
	}
	return m
}

// MatrixRows is the inverse of MatrixFromRows.
func MatrixRows(m mgl64.Mat4) [4][4]float64 {
	var rows [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r][c] = m.At(r, c)
		}
	}
	return rows
}
