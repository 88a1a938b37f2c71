package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/banshee-data/bevel.deformer/internal/db"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the metadata database schema",
	}
	withDB := func(fn func(*db.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			path := a.v.GetString("db")
			if path == "" {
				return fmt.Errorf("migrate needs --db")
			}
			database, err := db.OpenDB(path)
			if err != nil {
				return err
			}
			defer database.Close()
			return fn(database)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withDB(func(d *db.DB) error {
			if err := d.MigrateUp(); err != nil {
				return err
			}
			return a.printStatus(d)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: withDB(func(d *db.DB) error {
			if err := d.MigrateDown(); err != nil {
				return err
			}
			return a.printStatus(d)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show current and latest schema versions",
		Args:  cobra.NoArgs,
		RunE:  withDB(a.printStatus),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without migrating (recovery only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version number: %s", args[0])
			}
			return withDB(func(d *db.DB) error {
				if err := d.MigrateForce(v); err != nil {
					return err
				}
				return a.printStatus(d)
			})(cmd, args)
		},
	})
	return cmd
}

func (a *app) printStatus(d *db.DB) error {
	st, err := d.GetMigrationStatus()
	if err != nil {
		return err
	}
	a.printf("current version: %d\nlatest version:  %d\ndirty: %v\n", st.CurrentVersion, st.LatestVersion, st.Dirty)
	if st.Dirty {
		a.printf("WARNING: a migration failed mid-run; inspect the database, then run: bevel-deformer migrate force <version>\n")
	}
	return nil
}
