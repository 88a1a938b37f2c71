package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/banshee-data/bevel.deformer/internal/config"
	"github.com/banshee-data/bevel.deformer/internal/db"
	"github.com/banshee-data/bevel.deformer/internal/lattice"
	"github.com/banshee-data/bevel.deformer/internal/lattice/deform"
	"github.com/banshee-data/bevel.deformer/internal/lattice/liveupdate"
	"github.com/banshee-data/bevel.deformer/internal/lattice/solver"
	"github.com/banshee-data/bevel.deformer/internal/ops"
)

// settingKeys are the settings that BEVEL_<KEY> environment variables may
// override, applied in this order after the settings file is loaded.
var settingKeys = []string{
	"base_resolution",
	"locked_axis_enabled",
	"locked_world_axis",
	"interpolation",
	"scale_factor",
	"shift_factor",
	"offset_x",
	"offset_y",
	"offset_z",
	"reset_to_uniform",
	"live_update_interval",
}

// app carries what every subcommand shares.
type app struct {
	mu       sync.Mutex // guards out
	v        *viper.Viper
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	settings *config.Settings
}

func defaultDBPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bevel-deformer", "metadata.db")
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "bevel-deformer",
		Short: "Fit and shape deformation lattices around scene meshes",
		Long: `bevel-deformer fits a control lattice around each selected mesh of a
scene document, then shapes it: the second row of points is pulled toward
the boundary to tighten the bevel, the interior is relaxed, offsets are
ramped in and shifted axes are scaled.

The scene document is YAML or JSON. Lock metadata is kept in a SQLite
database so it survives across runs.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringP("scene", "s", "", "Scene document (.yaml or .json)")
	pf.String("db", defaultDBPath(), "SQLite metadata database (empty for in-memory)")
	pf.StringP("config", "c", "", "Settings JSON (default: built-in defaults)")
	pf.StringSlice("select", nil, "Replace the document's selection with these object names")
	pf.BoolP("verbose", "v", false, "Log solver and deform diagnostics")
	pf.Bool("trace", false, "Log per-pass details")

	a.v.SetEnvPrefix("BEVEL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := bindConfig(a.v, pf, []string{"scene", "db", "config", "select", "verbose", "trace"}, settingKeys); err != nil {
		panic(err)
	}

	root.AddCommand(
		a.createCmd(),
		a.deformCmd(),
		a.resetCmd(),
		a.deleteCmd(),
		a.releaseCmd(),
		a.interpolationCmd(),
		a.liveCmd(),
		a.plotCmd(),
		a.settingsCmd(),
		a.historyCmd(),
		a.migrateCmd(),
		versionCmd(),
	)
	return root
}

// bindConfig binds the named persistent flags and the setting keys' env
// vars on v. A flag name with no matching flag is an error.
func bindConfig(v *viper.Viper, fs *pflag.FlagSet, flags, envKeys []string) error {
	for _, name := range flags {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %q: %w", key, err)
		}
	}
	return nil
}

// setup wires the log streams and loads settings before any subcommand.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var diag, trace io.Writer
	if a.v.GetBool("verbose") {
		diag = a.errOut
	}
	if a.v.GetBool("trace") {
		trace = a.errOut
	}
	lattice.SetLogWriters(a.errOut, diag, trace)
	solver.SetLogWriters(a.errOut, diag, trace)
	deform.SetLogWriters(a.errOut, diag, trace)
	liveupdate.SetLogWriters(a.errOut, diag, trace)
	ops.SetLogWriters(a.errOut, diag, trace)
	db.SetLogWriters(a.errOut, diag, trace)

	settings, err := a.loadSettings()
	if err != nil {
		return err
	}
	a.settings = settings
	return nil
}

// loadSettings reads the settings file, if any, then applies environment
// overrides.
func (a *app) loadSettings() (*config.Settings, error) {
	s := config.DefaultSettings()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.LoadSettings(path)
		if err != nil {
			return nil, err
		}
		s = loaded
	}
	for _, key := range settingKeys {
		if raw := a.v.GetString(key); raw != "" {
			if err := s.Set(key, raw); err != nil {
				return nil, fmt.Errorf("BEVEL_%s: %w", strings.ToUpper(key), err)
			}
		}
	}
	return s, nil
}

// flagSetting maps a command flag to the setting it overrides.
type flagSetting struct {
	flag, key string
}

// applyFlags copies changed flags into the settings.
func (a *app) applyFlags(cmd *cobra.Command, mapping []flagSetting) error {
	for _, m := range mapping {
		f := cmd.Flags().Lookup(m.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := a.settings.Set(m.key, f.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", m.flag, err)
		}
	}
	return nil
}

func (a *app) printf(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) report(rep ops.Report) {
	a.printf("%s\n", rep.String())
}
