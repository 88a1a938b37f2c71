package main

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/bevel.deformer/internal/lattice/liveupdate"
	"github.com/banshee-data/bevel.deformer/internal/ops"
)

func (a *app) liveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Re-deform the targeted lattices as settings arrive on stdin",
		Long: `Reads one edit per line from stdin, each "key=value" with a settings key
such as shift_factor=0.7. Edits that arrive within live_update_interval of
each other are coalesced into a single deform. The line "reset" restores the
uniform layout and neutralises the shaping settings. At end of input any
pending update runs and the scene is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			defer s.close()

			u := ops.NewLiveUpdater(s.sc, nil, a.settings.GetLiveUpdateInterval(), ops.ParamsFromSettings(a.settings),
				liveupdate.WithFaultHandler(func(err error) {
					a.printf("update failed: %v\n", err)
				}))
			defer u.Stop()

			scanner := bufio.NewScanner(a.in)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				if line == "reset" {
					rep, err := u.Reset()
					if err != nil {
						continue
					}
					a.report(rep)
					a.settings.ResetDeformSliders()
					continue
				}
				key, value, ok := strings.Cut(line, "=")
				if !ok {
					a.printf("ignoring %q: want key=value\n", line)
					continue
				}
				if err := a.settings.Set(strings.TrimSpace(key), value); err != nil {
					a.printf("ignoring %q: %v\n", line, err)
					continue
				}
				u.SetParams(ops.ParamsFromSettings(a.settings))
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			// Run failures reach the fault handler.
			if err := u.Flush(); errors.Is(err, liveupdate.ErrStopped) {
				return err
			}
			u.Stop()

			stats := u.Stats()
			a.printf("%d edit(s), %d update(s), %d failed\n", stats.Notifies, stats.Runs, stats.Failures)

			if last := u.LastReport(); len(last.Messages) > 0 {
				if err := s.record("live", u.Params(), last); err != nil {
					return err
				}
			}
			return s.save()
		},
	}
}
