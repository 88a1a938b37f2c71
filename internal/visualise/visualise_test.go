package visualise

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

func testGrid(t *testing.T) *lattice.Grid {
	t.Helper()
	g, err := lattice.NewGrid(lattice.Resolution{4, 3, 2}, "")
	require.NoError(t, err)
	return g
}

func TestWorldPoints(t *testing.T) {
	g := testGrid(t)
	world := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.Scale3D(2, 2, 2))

	pts, err := WorldPoints(g, world)
	require.NoError(t, err)
	require.Len(t, pts, g.Resolution.Count())
	assert.Equal(t, r3.Vec{X: 0, Y: 1, Z: 2}, pts[0])
	assert.Equal(t, r3.Vec{X: 2, Y: 3, Z: 4}, pts[len(pts)-1])

	g.Points = g.Points[:1]
	_, err = WorldPoints(g, world)
	assert.Error(t, err)
}

func TestSaveProjections(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	files, err := SaveProjections(dir, "Lattice_Cube", testGrid(t), mgl64.Ident4())
	require.NoError(t, err)
	require.Len(t, files, len(Projections))

	for i, f := range files {
		assert.Equal(t, filepath.Join(dir, "Lattice_Cube_"+Projections[i].Name+".png"), f)
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestSaveProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.png")
	require.NoError(t, SaveProfile(path, "Lattice_Cube", testGrid(t)))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, SaveProfile(path, "broken", &lattice.Grid{}))
}

func TestRenderScatter3D(t *testing.T) {
	var buf bytes.Buffer
	err := RenderScatter3D(&buf, "Lattices", []Layer{
		{Name: "Lattice_A", Grid: testGrid(t), World: mgl64.Ident4()},
		{Name: "Lattice_B", Grid: testGrid(t), World: mgl64.Translate3D(3, 0, 0)},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "scatter3D")
	assert.Contains(t, html, "Lattice_A 4x3x2")
	assert.Contains(t, html, "Lattice_B 4x3x2")

	assert.Error(t, RenderScatter3D(&buf, "empty", nil))
}

func TestSaveScatter3D(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lattices.html")
	require.NoError(t, SaveScatter3D(path, "Lattices", []Layer{{Name: "L", Grid: testGrid(t), World: mgl64.Ident4()}}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
}

func TestGenerateColors(t *testing.T) {
	assert.Nil(t, generateColors(0))
	assert.Len(t, generateColors(5), 5)
	r, g, b := hslToRGB(0, 0, 0.5)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}
