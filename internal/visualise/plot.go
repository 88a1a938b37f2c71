package visualise

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

const (
	projectionSize = 6 * vg.Inch
	profileWidth   = 10 * vg.Inch
	profileHeight  = 5 * vg.Inch
)

// SaveProjections writes one PNG per entry in Projections into dir, named
// <name>_<projection>.png. Grid lines are drawn per lattice axis and the
// control points on top. It returns the written paths.
func SaveProjections(dir, name string, g *lattice.Grid, world mgl64.Mat4) ([]string, error) {
	pts, err := WorldPoints(g, world)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var written []string
	for _, proj := range Projections {
		p, err := projectionPlot(name, g, pts, proj)
		if err != nil {
			return written, fmt.Errorf("%s: %w", proj.Name, err)
		}
		file := filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, proj.Name))
		if err := p.Save(projectionSize, projectionSize, file); err != nil {
			return written, fmt.Errorf("save %s plot: %w", proj.Name, err)
		}
		written = append(written, file)
	}
	return written, nil
}

func projectionPlot(name string, g *lattice.Grid, pts []r3.Vec, proj Projection) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s (%s)", name, g.Resolution, proj.Name)
	p.X.Label.Text = axisNames[proj.H]
	p.Y.Label.Text = axisNames[proj.V]

	var idx []int
	for axis := 0; axis < 3; axis++ {
		for line := 0; line < g.LineCount(axis); line++ {
			idx = g.LineIndices(axis, line, idx[:0])
			xys := make(plotter.XYs, len(idx))
			for k, i := range idx {
				xys[k] = plotter.XY{
					X: lattice.Component(pts[i], proj.H),
					Y: lattice.Component(pts[i], proj.V),
				}
			}
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			l.Color = axisColors[axis]
			l.Width = vg.Points(0.5)
			p.Add(l)
			if line == 0 {
				p.Legend.Add(axisNames[axis]+" lines", l)
			}
		}
	}

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: lattice.Component(pt, proj.H), Y: lattice.Component(pt, proj.V)}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Radius = vg.Points(2)
	p.Add(sc)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SaveProfile plots the local coordinate of each point along the first
// line of every axis against its index. Shift, relax and offset show up
// as departures from the straight uniform profile.
func SaveProfile(path, name string, g *lattice.Grid) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("visualise: %w", err)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s coordinate profile", name, g.Resolution)
	p.X.Label.Text = "Index"
	p.Y.Label.Text = "Local coordinate"

	var idx []int
	for axis := 0; axis < 3; axis++ {
		idx = g.LineIndices(axis, 0, idx[:0])
		xys := make(plotter.XYs, len(idx))
		for k, i := range idx {
			xys[k] = plotter.XY{X: float64(k), Y: lattice.Component(g.Points[i], axis)}
		}
		l, s, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("axis %s: %w", axisNames[axis], err)
		}
		l.Color = axisColors[axis]
		l.Width = vg.Points(1)
		s.GlyphStyle.Color = axisColors[axis]
		p.Add(l, s)
		p.Legend.Add(axisNames[axis], l, s)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := p.Save(profileWidth, profileHeight, path); err != nil {
		return fmt.Errorf("save profile plot: %w", err)
	}
	return nil
}
