package ops

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/bevel.deformer/internal/config"
	"github.com/banshee-data/bevel.deformer/internal/lattice"
	"github.com/banshee-data/bevel.deformer/internal/lattice/deform"
	"github.com/banshee-data/bevel.deformer/internal/scene"
)

func uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lattice.UniformCoordinate(i, n)
	}
	return out
}

func TestDeformSelected_FullShiftThenScale(t *testing.T) {
	sc := newScene(t, cubeBox(), "Cube")
	require.Equal(t, 1, CreateLattices(sc, unlocked(6)).Count)

	p := deform.Params{ScaleFactor: 0.95, ShiftFactor: 1, ResetToUniform: true}
	rep, err := DeformSelected(sc, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deformed 1 lattice(s)"}, rep.Messages)

	want := []float64{-0.5, -0.5, -1.0 / 6, 1.0 / 6, 0.5, 0.5}
	floats.Scale(0.95, want)
	g := sc.Object("Lattice_Cube").Grid
	for axis := 0; axis < 3; axis++ {
		got := localAxis(g, axis)
		assert.True(t, floats.EqualApprox(want, got, tol), "axis %d: %v", axis, got)
	}

	// Running again with reset gives the same grid.
	before := g.Clone()
	_, err = DeformSelected(sc, p)
	require.NoError(t, err)
	assert.Equal(t, before.Points, g.Points)
}

func TestDeformSelected_LockedAxisIgnoresOffset(t *testing.T) {
	sc := newScene(t, cubeBox(), "Cube")
	require.Equal(t, 1, CreateLattices(sc, DefaultLatticeOptions()).Count)
	g := sc.Object("Lattice_Cube").Grid
	require.Equal(t, lattice.Resolution{2, 6, 6}, g.Resolution)

	p := deform.Params{ScaleFactor: 1, OffsetX: 1, OffsetY: 0.3, ResetToUniform: true}
	_, err := DeformSelected(sc, p)
	require.NoError(t, err)

	assert.True(t, floats.EqualApprox([]float64{-0.5, 0.5}, localAxis(g, 0), tol))
	wantY := []float64{-0.5, -0.3, 0, 0.3, 0.6, 0.8}
	assert.True(t, floats.EqualApprox(wantY, localAxis(g, 1), tol), "%v", localAxis(g, 1))
	assert.True(t, floats.EqualApprox(uniform(6), localAxis(g, 2), tol))
}

func TestDeformSelected_MetadataTakesPrecedence(t *testing.T) {
	sc := newScene(t, cubeBox(), "Cube")
	require.Equal(t, 1, CreateLattices(sc, unlocked(6)).Count)
	lat := sc.Object("Lattice_Cube")

	meta := lattice.LockMetadata{Enabled: true, AxisIndex: 1, WorldAxis: lattice.AxisY}
	require.NoError(t, sc.SaveMetadata(lat, meta.Encode()))

	_, err := DeformSelected(sc, deform.Params{ScaleFactor: 1, OffsetY: 1, OffsetZ: 1, ResetToUniform: true})
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(uniform(6), localAxis(lat.Grid, 1), tol), "Y is locked by metadata")
	assert.False(t, floats.EqualApprox(uniform(6), localAxis(lat.Grid, 2), tol), "Z is offset")
}

func TestTargetsFor_LegacyInference(t *testing.T) {
	sc := scene.New(nil)
	g, err := lattice.NewGrid(lattice.Resolution{6, 2, 6}, "")
	require.NoError(t, err)
	legacy := scene.NewLattice("Legacy", g, mgl64.Ident4())
	require.NoError(t, sc.Add(legacy))

	targets := TargetsFor(sc, []*scene.Object{legacy})
	require.Len(t, targets, 1)
	assert.True(t, targets[0].Locked)
	assert.Equal(t, 1, targets[0].LockedAxis)
}

func TestTargetsFor_StoreErrorFallsBackToInference(t *testing.T) {
	sc := scene.New(failingMetadata{})
	g, err := lattice.NewGrid(lattice.Resolution{2, 6, 6}, "")
	require.NoError(t, err)
	lat := scene.NewLattice("L", g, mgl64.Ident4())
	require.NoError(t, sc.Add(lat))

	targets := TargetsFor(sc, []*scene.Object{lat})
	assert.True(t, targets[0].Locked)
	assert.Equal(t, 0, targets[0].LockedAxis)
}

func TestDeformSelected_InvalidParamsTouchNothing(t *testing.T) {
	sc := newScene(t, cubeBox(), "Cube")
	require.Equal(t, 1, CreateLattices(sc, unlocked(6)).Count)
	g := sc.Object("Lattice_Cube").Grid
	before := g.Clone()

	_, err := DeformSelected(sc, deform.Params{ScaleFactor: 1, ShiftFactor: 2})
	assert.ErrorIs(t, err, deform.ErrInvalidParams)
	assert.Equal(t, before.Points, g.Points)
}

func TestDeformSelected_NoTargets(t *testing.T) {
	sc := newScene(t, cubeBox(), "Cube")
	rep, err := DeformSelected(sc, deform.DefaultParams())
	require.NoError(t, err)
	assert.True(t, rep.Warning())
	assert.Equal(t, 0, rep.Count)
}

func TestDeformSelected_MalformedGridIsReported(t *testing.T) {
	sc := newScene(t, cubeBox(), "A", "B")
	require.Equal(t, 2, CreateLattices(sc, unlocked(4)).Count)
	broken := sc.Object("Lattice_B").Grid
	broken.Points = broken.Points[:3]

	rep, err := DeformSelected(sc, deform.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, rep.Level)
	assert.Equal(t, 1, rep.Count)
	require.Len(t, rep.Failures, 1)
	assert.Contains(t, rep.Failures[0].Error(), "Lattice_B")
}

func TestResetSelected(t *testing.T) {
	sc := newScene(t, cubeBox(), "Cube")
	require.Equal(t, 1, CreateLattices(sc, unlocked(6)).Count)
	_, err := DeformSelected(sc, deform.DefaultParams())
	require.NoError(t, err)

	current := deform.Params{ScaleFactor: 0.8, ShiftFactor: 0.4, OffsetX: 1, ResetToUniform: false}
	rep, neutral := ResetSelected(sc, current)
	assert.Equal(t, []string{"Reset 1 lattice(s) to uniform"}, rep.Messages)
	assert.Equal(t, deform.Params{ScaleFactor: 1}, neutral)

	g := sc.Object("Lattice_Cube").Grid
	for axis := 0; axis < 3; axis++ {
		assert.True(t, floats.EqualApprox(uniform(6), localAxis(g, axis), tol))
	}

	sc.DeselectAll()
	rep, same := ResetSelected(sc, current)
	assert.True(t, rep.Warning())
	assert.Equal(t, current, same)
}

func TestOptionsFromSettings(t *testing.T) {
	s := config.DefaultSettings()

	opt, err := LatticeOptionsFromSettings(s)
	require.NoError(t, err)
	assert.Equal(t, DefaultLatticeOptions(), opt)
	assert.Equal(t, deform.DefaultParams(), ParamsFromSettings(s))

	require.NoError(t, s.Set("locked_world_axis", "z"))
	require.NoError(t, s.Set("interpolation", "KEY_LINEAR"))
	require.NoError(t, s.Set("offset_y", "0.25"))
	opt, err = LatticeOptionsFromSettings(s)
	require.NoError(t, err)
	assert.Equal(t, lattice.AxisZ, opt.LockWorldAxis)
	assert.Equal(t, lattice.InterpolationLinear, opt.Interpolation)
	assert.Equal(t, 0.25, ParamsFromSettings(s).OffsetY)
}

func TestReportString(t *testing.T) {
	var rep Report
	rep.infof("Created %d lattice(s)", 2)
	assert.Equal(t, "[INFO] Created 2 lattice(s)", rep.String())

	rep.warnf("careful")
	assert.Equal(t, "[WARNING] Created 2 lattice(s); careful", rep.String())
	assert.Equal(t, "[INFO] ", Report{}.String())
}
