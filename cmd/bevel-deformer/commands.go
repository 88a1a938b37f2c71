package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/bevel.deformer/internal/config"
	"github.com/banshee-data/bevel.deformer/internal/db"
	"github.com/banshee-data/bevel.deformer/internal/lattice"
	"github.com/banshee-data/bevel.deformer/internal/ops"
	"github.com/banshee-data/bevel.deformer/internal/version"
)

var latticeFlags = []flagSetting{
	{"base-resolution", "base_resolution"},
	{"lock-axis", "locked_axis_enabled"},
	{"world-axis", "locked_world_axis"},
	{"interpolation", "interpolation"},
}

var deformFlags = []flagSetting{
	{"scale", "scale_factor"},
	{"shift", "shift_factor"},
	{"offset-x", "offset_x"},
	{"offset-y", "offset_y"},
	{"offset-z", "offset_z"},
	{"reset", "reset_to_uniform"},
}

func (a *app) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Fit a lattice to every selected mesh",
		Long: `Fits a lattice to each selected mesh, replacing any lattice previously
created for it. Resolution per axis follows the mesh's proportions, with the
smallest extent getting the base resolution. With axis locking on, the local
axis best aligned to the chosen world axis is held at two points.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyFlags(cmd, latticeFlags); err != nil {
				return err
			}
			opt, err := ops.LatticeOptionsFromSettings(a.settings)
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				a.report(ops.CreateLattices(s.sc, opt))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.Int("base-resolution", 6, "Points on the smallest axis (raised to an even number >= 2)")
	f.Bool("lock-axis", true, "Hold the axis nearest --world-axis at two points")
	f.String("world-axis", "X", "World axis for locking (X, Y or Z)")
	f.String("interpolation", string(lattice.DefaultInterpolation), "Interpolation mode")
	return cmd
}

func addDeformFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("scale", 0.95, "Scale applied to shifted axes")
	f.Float64("shift", 0.5, "Shift factor in [-1, 1]")
	f.Float64("offset-x", 0, "Ramped offset along X")
	f.Float64("offset-y", 0, "Ramped offset along Y")
	f.Float64("offset-z", 0, "Ramped offset along Z")
	f.Bool("reset", true, "Reset to the uniform layout before deforming")
}

func (a *app) deformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deform",
		Short: "Shift, offset and scale the targeted lattices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyFlags(cmd, deformFlags); err != nil {
				return err
			}
			p := ops.ParamsFromSettings(a.settings)
			return a.run(func(s *session) error {
				rep, err := ops.DeformSelected(s.sc, p)
				if err != nil {
					return err
				}
				a.report(rep)
				return s.record("deform", p, rep)
			})
		},
	}
	addDeformFlags(cmd)
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the targeted lattices to the uniform layout",
		Long: `Restores the targeted lattices to the uniform layout. With --write the
shaping settings in the --config file are neutralised too (scale 1, shift
and offsets 0).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := ops.ParamsFromSettings(a.settings)
			err := a.run(func(s *session) error {
				rep, neutral := ops.ResetSelected(s.sc, current)
				a.report(rep)
				return s.record("reset", neutral, rep)
			})
			if err != nil || !write {
				return err
			}
			path := a.v.GetString("config")
			if path == "" {
				return fmt.Errorf("--write needs --config")
			}
			a.settings.ResetDeformSliders()
			return config.SaveSettings(path, a.settings)
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Also neutralise the shaping settings in the --config file")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the selected lattices and those created for selected meshes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				a.report(ops.DeleteLattices(s.sc))
				return nil
			})
		},
	}
}

func (a *app) releaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release",
		Short: "Remove lattice modifiers and delete lattices nothing uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(s *session) error {
				a.report(ops.ReleaseLattices(s.sc))
				return nil
			})
		},
	}
}

func (a *app) interpolationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interpolation MODE",
		Short: "Set the interpolation mode of the targeted lattices",
		Long: `Sets the interpolation mode on the selected lattices and on the lattice
created for each selected mesh. MODE is one of KEY_LINEAR, KEY_CARDINAL,
KEY_CATMULL_ROM or KEY_BSPLINE; the short forms linear, cardinal,
catmull_rom and bspline are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := lattice.ParseInterpolation(args[0])
			if err != nil {
				return err
			}
			return a.run(func(s *session) error {
				rep, err := ops.ApplyInterpolation(s.sc, mode)
				if err != nil {
					return err
				}
				a.report(rep)
				return nil
			})
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent deform and reset runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDB()
			if err != nil {
				return err
			}
			if database == nil {
				return fmt.Errorf("history needs --db")
			}
			defer database.Close()

			runs, err := db.NewRunStore(database.DB).Recent(limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				a.printf("%s  %-6s lattices=%d failed=%d scale=%.3f shift=%.3f offset=(%.3f, %.3f, %.3f) reset=%v\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.Operation, r.Lattices, r.Failures,
					r.ScaleFactor, r.ShiftFactor, r.OffsetX, r.OffsetY, r.OffsetZ, r.ResetToUniform)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Skip settings and logging setup.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
