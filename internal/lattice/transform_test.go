package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPlacementTransform_MapsUnitCubeOntoBox(t *testing.T) {
	t.Parallel()

	box := BoundingBox{Min: r3.Vec{X: -2, Y: -0.5, Z: 0}, Max: r3.Vec{X: 2, Y: 0.5, Z: 1}}
	world := mgl64.Translate3D(10, 0, 0)
	m := PlacementTransform(world, box.Center(), box.Size())

	lo := TransformPoint(m, r3.Vec{X: -0.5, Y: -0.5, Z: -0.5})
	hi := TransformPoint(m, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	assert.InDelta(t, 8, lo.X, 1e-12)
	assert.InDelta(t, -0.5, lo.Y, 1e-12)
	assert.InDelta(t, 0, lo.Z, 1e-12)
	assert.InDelta(t, 12, hi.X, 1e-12)
	assert.InDelta(t, 0.5, hi.Y, 1e-12)
	assert.InDelta(t, 1, hi.Z, 1e-12)
}

func TestMatrixRowsRoundTrip(t *testing.T) {
	rows := [4][4]float64{
		{1, 0, 0, 5},
		{0, 0, -1, 6},
		{0, 1, 0, 7},
		{0, 0, 0, 1},
	}
	m := MatrixFromRows(rows)
	assert.Equal(t, 5.0, m.At(0, 3), "translation lives in the last column")
	assert.Equal(t, rows, MatrixRows(m))

	p := TransformPoint(m, r3.Vec{X: 0, Y: 1, Z: 0})
	assert.InDelta(t, 5, p.X, 1e-12)
	assert.InDelta(t, 6, p.Y, 1e-12)
	assert.InDelta(t, 8, p.Z, 1e-12)
}

func TestLocalAxes(t *testing.T) {
	m := mgl64.HomogRotate3DZ(math.Pi / 2)
	axes := LocalAxes(m)
	assert.InDelta(t, 1, axes[0].Dot(mgl64.Vec3{0, 1, 0}), 1e-12, "local X should point along world Y")
	assert.InDelta(t, 1, axes[1].Dot(mgl64.Vec3{-1, 0, 0}), 1e-12)
	assert.InDelta(t, 1, axes[2].Dot(mgl64.Vec3{0, 0, 1}), 1e-12)
}

func TestIsUsableTransform(t *testing.T) {
	assert.True(t, IsUsableTransform(mgl64.Ident4()))
	assert.True(t, IsUsableTransform(mgl64.Scale3D(2, 3, 4)))
	assert.False(t, IsUsableTransform(mgl64.Scale3D(1, 0, 1)), "singular")

	nan := mgl64.Ident4()
	nan.Set(0, 3, math.NaN())
	assert.False(t, IsUsableTransform(nan))

	proj := mgl64.Ident4()
	proj.Set(3, 0, 0.5)
	assert.False(t, IsUsableTransform(proj), "non-affine bottom row")
}

func TestWorldAxisVector(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, WorldAxisVector(AxisX))
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, WorldAxisVector(AxisY))
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, WorldAxisVector(AxisZ))
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, WorldAxisVector(Axis(9)))
}

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	box, err := BoundsFromCorners([]r3.Vec{
		{X: 1, Y: -1, Z: 2},
		{X: -1, Y: 3, Z: 0},
		{X: 0, Y: 0, Z: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: -1, Y: -1, Z: 0}, box.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 3, Z: 2}, box.Max)
	assert.Equal(t, r3.Vec{X: 0, Y: 1, Z: 1}, box.Center())
	assert.Equal(t, r3.Vec{X: 2, Y: 4, Z: 2}, box.Size())

	corners := box.Corners()
	assert.Equal(t, box.Min, corners[0])
	assert.Equal(t, box.Max, corners[7])

	_, err = BoundsFromCorners(nil)
	assert.True(t, errors.Is(err, ErrInvalidBounds))

	inverted := BoundingBox{Min: r3.Vec{X: 1}, Max: r3.Vec{X: 0}}
	assert.True(t, errors.Is(inverted.Validate(), ErrInvalidBounds))

	nan := BoundingBox{Min: r3.Vec{X: math.NaN()}}
	assert.True(t, errors.Is(nan.Validate(), ErrInvalidBounds))

	flat := BoundingBox{Min: r3.Vec{X: -1}, Max: r3.Vec{X: 1}}
	assert.NoError(t, flat.Validate(), "zero-extent axes are allowed")
}
