package lattice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewGrid_Uniform(t *testing.T) {
	t.Parallel()

	g, err := NewGrid(Resolution{3, 2, 5}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultInterpolation, g.Interpolation)
	require.Len(t, g.Points, 30)

	assert.Equal(t, r3.Vec{X: -0.5, Y: -0.5, Z: -0.5}, g.Points[0])
	assert.Equal(t, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, g.Points[29])
	assert.Equal(t, r3.Vec{X: 0, Y: -0.5, Z: -0.5}, g.At(1, 0, 0))
	assert.Equal(t, r3.Vec{X: -0.5, Y: 0.5, Z: 0}, g.At(0, 1, 2))
}

func TestNewGrid_InvalidResolution(t *testing.T) {
	t.Parallel()

	for _, res := range []Resolution{{1, 2, 2}, {2, 0, 2}, {2, 2, -3}} {
		_, err := NewGrid(res, InterpolationLinear)
		assert.True(t, errors.Is(err, ErrInvalidResolution), "res %v: %v", res, err)
	}
}

func TestNewGrid_UnknownInterpolation(t *testing.T) {
	_, err := NewGrid(Resolution{2, 2, 2}, Interpolation("KEY_SMOOTH"))
	if !errors.Is(err, ErrUnknownInterpolation) {
		t.Fatalf("expected ErrUnknownInterpolation, got %v", err)
	}
}

func TestGrid_IndexCoordsRoundTrip(t *testing.T) {
	g, err := NewGrid(Resolution{4, 3, 2}, InterpolationLinear)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Points {
		u, v, w := g.Coords(i)
		if got := g.Index(u, v, w); got != i {
			t.Errorf("Index(Coords(%d)) = %d", i, got)
		}
	}
	if g.Index(1, 2, 1) != 1*12+2*4+1 {
		t.Errorf("Index(1,2,1) = %d, want u fastest then v then w", g.Index(1, 2, 1))
	}
}

func TestGrid_ResetToUniformRestoresLayout(t *testing.T) {
	g, err := NewGrid(Resolution{3, 3, 3}, InterpolationBSpline)
	require.NoError(t, err)
	want := g.Clone()

	for i := range g.Points {
		g.Points[i] = r3.Vec{X: 9, Y: 9, Z: 9}
	}
	g.ResetToUniform()

	assert.Equal(t, want.Points, g.Points)
	assert.Equal(t, InterpolationBSpline, g.Interpolation)
}

func TestGrid_CloneIsDeep(t *testing.T) {
	g, _ := NewGrid(Resolution{2, 2, 2}, InterpolationLinear)
	c := g.Clone()
	c.Points[0] = r3.Vec{X: 1}
	if g.Points[0] == c.Points[0] {
		t.Error("Clone shares the point slice")
	}
}

func TestGrid_Validate(t *testing.T) {
	g, _ := NewGrid(Resolution{2, 2, 2}, InterpolationLinear)
	if err := g.Validate(); err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}
	g.Points = g.Points[:7]
	if err := g.Validate(); !errors.Is(err, ErrPointCount) {
		t.Errorf("expected ErrPointCount, got %v", err)
	}
	var nilGrid *Grid
	if err := nilGrid.Validate(); err == nil {
		t.Error("nil grid should not validate")
	}
}

func TestGrid_LineIndices(t *testing.T) {
	g, err := NewGrid(Resolution{4, 3, 2}, InterpolationLinear)
	require.NoError(t, err)

	for axis := 0; axis < 3; axis++ {
		seen := make(map[int]bool)
		var buf []int
		for line := 0; line < g.LineCount(axis); line++ {
			buf = g.LineIndices(axis, line, buf)
			require.Len(t, buf, g.Resolution[axis])
			for k, idx := range buf {
				assert.False(t, seen[idx], "axis %d index %d visited twice", axis, idx)
				seen[idx] = true
				// Along-axis coordinate increases with k.
				assert.InDelta(t, UniformCoordinate(k, g.Resolution[axis]), Component(g.Points[idx], axis), 1e-12)
			}
		}
		assert.Len(t, seen, len(g.Points), "axis %d lines must cover every point", axis)
	}
}

func TestGrid_Extent(t *testing.T) {
	g, _ := NewGrid(Resolution{3, 3, 3}, InterpolationLinear)
	box := g.Extent()
	assert.Equal(t, r3.Vec{X: -0.5, Y: -0.5, Z: -0.5}, box.Min)
	assert.Equal(t, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, box.Max)
}

func TestUniformCoordinate(t *testing.T) {
	cases := []struct {
		i, n int
		want float64
	}{
		{0, 2, -0.5},
		{1, 2, 0.5},
		{2, 5, 0},
		{1, 5, -0.25},
		{0, 1, 0},
	}
	for _, tc := range cases {
		if got := UniformCoordinate(tc.i, tc.n); got != tc.want {
			t.Errorf("UniformCoordinate(%d, %d) = %v, want %v", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestComponentHelpers(t *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	for axis, want := range []float64{1, 2, 3} {
		if got := Component(p, axis); got != want {
			t.Errorf("Component(%d) = %v", axis, got)
		}
	}
	q := WithComponent(p, 1, 7)
	if q != (r3.Vec{X: 1, Y: 7, Z: 3}) {
		t.Errorf("WithComponent = %v", q)
	}
}

func TestParseInterpolation(t *testing.T) {
	cases := map[string]Interpolation{
		"KEY_LINEAR":      InterpolationLinear,
		"linear":          InterpolationLinear,
		"cardinal":        InterpolationCardinal,
		"catmull-rom":     InterpolationCatmullRom,
		"KEY_CATMULL_ROM": InterpolationCatmullRom,
		" bspline ":       InterpolationBSpline,
		"b-spline":        InterpolationBSpline,
	}
	for in, want := range cases {
		got, err := ParseInterpolation(in)
		if err != nil || got != want {
			t.Errorf("ParseInterpolation(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseInterpolation("cubic"); !errors.Is(err, ErrUnknownInterpolation) {
		t.Errorf("expected ErrUnknownInterpolation, got %v", err)
	}
}

func TestParseAxis(t *testing.T) {
	for in, want := range map[string]Axis{"x": AxisX, "Y": AxisY, " z ": AxisZ} {
		got, err := ParseAxis(in)
		if err != nil || got != want {
			t.Errorf("ParseAxis(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAxis("W"); !errors.Is(err, ErrUnknownAxis) {
		t.Errorf("expected ErrUnknownAxis, got %v", err)
	}
	if Axis(7).Valid() {
		t.Error("Axis(7) should be invalid")
	}
	if Axis(7).String() != "Axis(7)" {
		t.Errorf("String() = %q", Axis(7).String())
	}
}
