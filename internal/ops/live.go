package ops

import (
	"sync"
	"time"

	"github.com/banshee-data/bevel.deformer/internal/lattice/deform"
	"github.com/banshee-data/bevel.deformer/internal/lattice/liveupdate"
	"github.com/banshee-data/bevel.deformer/internal/scene"
	"github.com/banshee-data/bevel.deformer/internal/timeutil"
)

// LiveUpdater re-deforms the current selection shortly after parameters
// change. Edits that arrive while an update is waiting or running are
// coalesced into the next run.
type LiveUpdater struct {
	mu     sync.Mutex
	sc     *scene.Scene
	params deform.Params
	last   Report
	sched  *liveupdate.Scheduler
}

// NewLiveUpdater returns an idle updater over sc. A nil clock selects the
// real clock; a non-positive interval selects liveupdate.DefaultInterval.
func NewLiveUpdater(sc *scene.Scene, clock timeutil.Clock, interval time.Duration, initial deform.Params, opts ...liveupdate.Option) *LiveUpdater {
	u := &LiveUpdater{sc: sc, params: initial}
	u.sched = liveupdate.New(clock, interval, u.run, opts...)
	return u
}

func (u *LiveUpdater) run() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	rep, err := DeformSelected(u.sc, u.params)
	if err != nil {
		return err
	}
	u.last = rep
	return nil
}

// SetParams stores p and schedules an update.
func (u *LiveUpdater) SetParams(p deform.Params) {
	u.mu.Lock()
	u.params = p
	u.mu.Unlock()
	u.sched.Notify()
}

// Reset flushes any pending update, then restores the uniform layout on
// the targeted lattices and neutralises the stored parameters. It does not
// schedule a run.
func (u *LiveUpdater) Reset() (Report, error) {
	if err := u.sched.Flush(); err != nil {
		return Report{}, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	rep, next := ResetSelected(u.sc, u.params)
	u.params = next
	u.last = rep
	return rep, nil
}

// Params returns the most recently set parameters.
func (u *LiveUpdater) Params() deform.Params {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.params
}

// LastReport returns the report of the last successful run or Reset.
func (u *LiveUpdater) LastReport() Report {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last
}

// WithScene runs fn with exclusive access to the scene, so direct
// operator calls never interleave with a scheduled update.
func (u *LiveUpdater) WithScene(fn func(*scene.Scene)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn(u.sc)
}

// Flush runs a pending update now.
func (u *LiveUpdater) Flush() error { return u.sched.Flush() }

// Stop cancels any scheduled update.
func (u *LiveUpdater) Stop() { u.sched.Stop() }

// State returns the scheduler state.
func (u *LiveUpdater) State() liveupdate.State { return u.sched.State() }

// Stats returns the scheduler counters.
func (u *LiveUpdater) Stats() liveupdate.Stats { return u.sched.Stats() }
