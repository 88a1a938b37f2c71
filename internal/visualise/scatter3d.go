package visualise

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

// Layer is one lattice drawn on the 3-D scatter.
type Layer struct {
	Name  string
	Grid  *lattice.Grid
	World mgl64.Mat4
}

// RenderScatter3D writes an HTML page with one scatter series per layer.
func RenderScatter3D(w io.Writer, title string, layers []Layer) error {
	if len(layers) == 0 {
		return fmt.Errorf("visualise: nothing to render")
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("lattices=%d", len(layers))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z"}),
	)

	for _, layer := range layers {
		pts, err := WorldPoints(layer.Grid, layer.World)
		if err != nil {
			return fmt.Errorf("%s: %w", layer.Name, err)
		}
		data := make([]opts.Chart3DData, len(pts))
		for i, p := range pts {
			data[i] = opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}}
		}
		scatter.AddSeries(fmt.Sprintf("%s %s", layer.Name, layer.Grid.Resolution), data)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	return nil
}

// SaveScatter3D renders layers into the HTML file at path.
func SaveScatter3D(path, title string, layers []Layer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := RenderScatter3D(f, title, layers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
