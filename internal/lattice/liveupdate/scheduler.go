package liveupdate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/bevel.deformer/internal/timeutil"
)

// DefaultInterval is the debounce delay between an edit and its run.
const DefaultInterval = 150 * time.Millisecond

// ErrStopped is returned by Flush after Stop.
var ErrStopped = errors.New("liveupdate: scheduler stopped")

// State is the scheduler's timer state.
type State int

const (
	// Idle means no timer is armed.
	Idle State = iota
	// Scheduled means a timer is armed and will fire.
	Scheduled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RunFunc performs one deformation pass with the latest parameters.
type RunFunc func() error

// Stats counts scheduler activity since construction.
type Stats struct {
	Notifies int
	Runs     int
	Failures int
	Panics   int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithFaultHandler registers fn to be called after a run returns an error
// or panics. The scheduler has already recovered when fn is called.
func WithFaultHandler(fn func(error)) Option {
	return func(s *Scheduler) { s.onFault = fn }
}

// Scheduler debounces Notify calls into calls of a RunFunc.
type Scheduler struct {
	clock    timeutil.Clock
	interval time.Duration
	run      RunFunc
	onFault  func(error)

	// runMu serialises runs between the timer and Flush.
	runMu sync.Mutex

	mu      sync.Mutex
	state   State
	pending bool
	stopped bool
	timer   timeutil.Timer
	gen     uint64 // identifies the armed timer; bumped by arm, Flush and Stop
	stats   Stats
}

// New returns an idle scheduler. A nil clock selects the real clock and a
// non-positive interval selects DefaultInterval.
func New(clock timeutil.Clock, interval time.Duration, run RunFunc, opts ...Option) *Scheduler {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{
		clock:    clock,
		interval: interval,
		run:      run,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the debounce delay.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Notify records that parameters changed. From Idle it arms the timer;
// while Scheduled it only marks work pending. Notify after Stop is a
// no-op.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stats.Notifies++
	s.pending = true
	if s.state == Scheduled {
		tracef("notify coalesced")
		return
	}
	s.state = Scheduled
	s.armLocked()
	tracef("notify armed timer for %s", s.interval)
}

// armLocked starts a new timer. s.mu must be held.
func (s *Scheduler) armLocked() {
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(gen) })
}

// fire is the timer callback. A timer superseded by Flush or Stop
// finds a newer generation and leaves the state alone.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.stopped || !s.pending {
		s.state = Idle
		s.timer = nil
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.mu.Unlock()

	tracef("fire")
	err := s.runSafely()

	s.mu.Lock()
	current := gen == s.gen
	if err != nil {
		if current {
			s.pending = false
			s.state = Idle
			s.timer = nil
		}
		s.mu.Unlock()
		s.fault(err)
		return
	}
	if !current {
		s.mu.Unlock()
		return
	}
	if s.pending && !s.stopped {
		s.armLocked()
		s.mu.Unlock()
		tracef("edits arrived during run, re-armed")
		return
	}
	s.state = Idle
	s.timer = nil
	s.mu.Unlock()
}

// Flush runs immediately if work is pending, cancelling the armed timer.
// It returns the run's error, or ErrStopped after Stop.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = Idle
	s.mu.Unlock()

	diagf("flush")
	err := s.runSafely()
	if err != nil {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
		s.fault(err)
	}
	return err
}

// Stop cancels any armed timer and discards pending work. Later Notify
// calls are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	s.pending = false
	s.gen++
	s.state = Idle
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	diagf("stopped after %d runs", s.stats.Runs)
}

// State returns the current timer state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a notification is waiting for a run.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Stats returns a snapshot of the activity counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// runSafely invokes the RunFunc, converting a panic into an error.
func (s *Scheduler) runSafely() (err error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("liveupdate: run panicked: %v", r)
			s.mu.Lock()
			s.stats.Panics++
			s.mu.Unlock()
		}
	}()

	s.mu.Lock()
	s.stats.Runs++
	s.mu.Unlock()

	if s.run == nil {
		return nil
	}
	return s.run()
}

func (s *Scheduler) fault(err error) {
	s.mu.Lock()
	s.stats.Failures++
	s.mu.Unlock()

	opsf("live update failed: %v", err)
	if s.onFault != nil {
		s.onFault(err)
	}
}
