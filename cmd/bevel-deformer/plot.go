package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/banshee-data/bevel.deformer/internal/ops"
	"github.com/banshee-data/bevel.deformer/internal/scene"
	"github.com/banshee-data/bevel.deformer/internal/security"
	"github.com/banshee-data/bevel.deformer/internal/visualise"
)

func (a *app) plotCmd() *cobra.Command {
	var (
		outDir  string
		html    bool
		profile bool
	)
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write PNG projections and an HTML 3-D view of the lattices",
		Long: `Writes XY, XZ and YZ projections of each targeted lattice as PNG files,
optionally a per-axis coordinate profile, and one HTML page with all of them
as a 3-D scatter. With nothing selected every lattice in the scene is
plotted. Output must stay under the working directory or the system temp
directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := security.ValidateExportPath(outDir); err != nil {
				return err
			}
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			lats := ops.GatherTargetLattices(s.sc)
			if len(lats) == 0 {
				for _, o := range s.sc.Objects() {
					if o.IsLattice() {
						lats = append(lats, o)
					}
				}
			}
			if len(lats) == 0 {
				return fmt.Errorf("no lattices in %s", s.path)
			}

			layers := make([]visualise.Layer, 0, len(lats))
			for _, lat := range lats {
				files, err := plotLattice(outDir, lat, profile)
				if err != nil {
					return fmt.Errorf("%s: %w", lat.Name, err)
				}
				for _, f := range files {
					a.printf("wrote %s\n", f)
				}
				layers = append(layers, visualise.Layer{Name: lat.Name, Grid: lat.Grid, World: lat.World})
			}

			if html {
				path := filepath.Join(outDir, "lattices.html")
				if err := security.ValidateOutputPath(path, outDir, ".html"); err != nil {
					return err
				}
				if err := visualise.SaveScatter3D(path, "Lattices", layers); err != nil {
					return err
				}
				a.printf("wrote %s\n", path)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&outDir, "out", "o", "plots", "Output directory")
	f.BoolVar(&html, "html", true, "Also write lattices.html")
	f.BoolVar(&profile, "profile", false, "Also write a coordinate profile per lattice")
	return cmd
}

func plotLattice(dir string, lat *scene.Object, profile bool) ([]string, error) {
	name := security.SanitizeFilename(lat.Name)
	files, err := visualise.SaveProjections(dir, name, lat.Grid, lat.World)
	if err != nil {
		return files, err
	}
	if profile {
		path := filepath.Join(dir, name+"_profile.png")
		if err := visualise.SaveProfile(path, lat.Name, lat.Grid); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
