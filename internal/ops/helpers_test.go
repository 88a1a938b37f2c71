package ops

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
	"github.com/banshee-data/bevel.deformer/internal/scene"
)

const tol = 1e-12

func box(min, max r3.Vec) lattice.BoundingBox {
	return lattice.BoundingBox{Min: min, Max: max}
}

func cubeBox() lattice.BoundingBox {
	return box(r3.Vec{X: -1, Y: -1, Z: -1}, r3.Vec{X: 1, Y: 1, Z: 1})
}

func unlocked(base int) LatticeOptions {
	return LatticeOptions{BaseResolution: base, Interpolation: lattice.InterpolationBSpline}
}

// newScene returns a scene with the named meshes added and selected.
func newScene(t *testing.T, bounds lattice.BoundingBox, names ...string) *scene.Scene {
	t.Helper()
	sc := scene.New(nil)
	for _, n := range names {
		m := scene.NewMesh(n, bounds, mgl64.Ident4())
		m.Collection = "Collection"
		require.NoError(t, sc.Add(m))
	}
	sc.Select(names...)
	return sc
}

// worldAxis returns the world coordinates of the first line along axis.
func worldAxis(lat *scene.Object, axis int) []float64 {
	idx := lat.Grid.LineIndices(axis, 0, nil)
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = lattice.Component(lattice.TransformPoint(lat.World, lat.Grid.Points[i]), axis)
	}
	return out
}

func localAxis(g *lattice.Grid, axis int) []float64 {
	idx := g.LineIndices(axis, 0, nil)
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = lattice.Component(g.Points[i], axis)
	}
	return out
}

// failingMetadata fails every call.
type failingMetadata struct{}

var errStore = errors.New("store offline")

func (failingMetadata) Load(string) (map[string]string, error) { return nil, errStore }
func (failingMetadata) Save(string, map[string]string) error   { return errStore }
func (failingMetadata) Delete(string) error                    { return errStore }

// stickyMetadata keeps metadata in memory but refuses to delete it.
type stickyMetadata struct {
	*scene.MemoryMetadata
}

func (stickyMetadata) Delete(string) error { return errStore }
