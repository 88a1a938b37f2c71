package visualise

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

// Projection names the two world axes drawn on a 2-D plot.
type Projection struct {
	Name string
	H, V int
}

// Projections are the three orthographic views written by SaveProjections.
var Projections = []Projection{
	{Name: "xy", H: 0, V: 1},
	{Name: "xz", H: 0, V: 2},
	{Name: "yz", H: 1, V: 2},
}

// WorldPoints maps every control point of g through world.
func WorldPoints(g *lattice.Grid, world mgl64.Mat4) ([]r3.Vec, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("visualise: %w", err)
	}
	out := make([]r3.Vec, len(g.Points))
	for i, p := range g.Points {
		out[i] = lattice.TransformPoint(world, p)
	}
	return out, nil
}

var axisNames = [3]string{"X", "Y", "Z"}

// axisColors gives each lattice axis its own hue.
var axisColors = generateColors(3)

// generateColors creates a palette of n evenly spaced hues.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
