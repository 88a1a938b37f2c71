package liveupdate

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/banshee-data/bevel.deformer/internal/timeutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newMock() *timeutil.MockClock {
	return timeutil.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
}

func TestScheduler_SingleNotifyRunsOnceAfterInterval(t *testing.T) {
	clock := newMock()
	runs := 0
	s := New(clock, 150*time.Millisecond, func() error { runs++; return nil })

	assert.Equal(t, Idle, s.State())
	s.Notify()
	assert.Equal(t, Scheduled, s.State())
	assert.True(t, s.Pending())

	clock.Advance(149 * time.Millisecond)
	assert.Equal(t, 0, runs)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, runs)
	assert.Equal(t, Idle, s.State())
	assert.False(t, s.Pending())
	assert.Equal(t, 0, clock.Pending(), "no timer left armed")
}

func TestScheduler_BurstCoalescesIntoOneRun(t *testing.T) {
	clock := newMock()
	runs := 0
	s := New(clock, 150*time.Millisecond, func() error { runs++; return nil })

	for i := 0; i < 20; i++ {
		s.Notify()
		clock.Advance(5 * time.Millisecond)
	}
	// 100ms elapsed; the first notify's timer is still armed.
	assert.Equal(t, 0, runs)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, runs)

	clock.Advance(time.Second)
	assert.Equal(t, 1, runs, "no trailing run without new edits")
	assert.Equal(t, Stats{Notifies: 20, Runs: 1}, s.Stats())
}

func TestScheduler_EditDuringRunReschedules(t *testing.T) {
	clock := newMock()
	var s *Scheduler
	var runTimes []time.Time
	s = New(clock, 100*time.Millisecond, func() error {
		runTimes = append(runTimes, clock.Now())
		if len(runTimes) == 1 {
			s.Notify() // slider moved while the first run was in progress
		}
		return nil
	})

	start := clock.Now()
	s.Notify()
	clock.Advance(100 * time.Millisecond)
	require.Len(t, runTimes, 1)
	assert.Equal(t, Scheduled, s.State())

	clock.Advance(100 * time.Millisecond)
	require.Len(t, runTimes, 2)
	assert.Equal(t, start.Add(200*time.Millisecond), runTimes[1])
	assert.Equal(t, Idle, s.State())
}

func TestScheduler_ErrorResetsFlagsAndRecovers(t *testing.T) {
	clock := newMock()
	var faults []error
	fail := true
	runs := 0
	s := New(clock, 10*time.Millisecond, func() error {
		runs++
		if fail {
			return errors.New("scene unavailable")
		}
		return nil
	}, WithFaultHandler(func(err error) { faults = append(faults, err) }))

	s.Notify()
	clock.Advance(10 * time.Millisecond)

	assert.Equal(t, 1, runs)
	assert.Equal(t, Idle, s.State())
	assert.False(t, s.Pending())
	require.Len(t, faults, 1)
	assert.EqualError(t, faults[0], "scene unavailable")

	fail = false
	s.Notify()
	assert.Equal(t, Scheduled, s.State(), "next notify must re-arm after a failure")
	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 1, s.Stats().Failures)
}

func TestScheduler_ErrorDropsEditsMadeDuringFailedRun(t *testing.T) {
	clock := newMock()
	var s *Scheduler
	runs := 0
	s = New(clock, 10*time.Millisecond, func() error {
		runs++
		s.Notify()
		return errors.New("boom")
	})

	s.Notify()
	clock.Advance(time.Second)
	assert.Equal(t, 1, runs, "a failed run never re-arms the timer")
	assert.Equal(t, Idle, s.State())
	assert.False(t, s.Pending())
}

func TestScheduler_PanicIsRecovered(t *testing.T) {
	clock := newMock()
	var fault error
	s := New(clock, 10*time.Millisecond, func() error {
		panic("nil lattice")
	}, WithFaultHandler(func(err error) { fault = err }))

	s.Notify()
	assert.NotPanics(t, func() { clock.Advance(10 * time.Millisecond) })
	require.Error(t, fault)
	assert.Contains(t, fault.Error(), "nil lattice")
	assert.Equal(t, Idle, s.State())

	st := s.Stats()
	assert.Equal(t, 1, st.Panics)
	assert.Equal(t, 1, st.Failures)
}

func TestScheduler_FlushRunsImmediately(t *testing.T) {
	clock := newMock()
	runs := 0
	s := New(clock, time.Second, func() error { runs++; return nil })

	require.NoError(t, s.Flush(), "flush with nothing pending is a no-op")
	assert.Equal(t, 0, runs)

	s.Notify()
	require.NoError(t, s.Flush())
	assert.Equal(t, 1, runs)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, 0, clock.Pending(), "flush cancels the armed timer")

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, runs)
}

func TestScheduler_FlushReturnsRunError(t *testing.T) {
	clock := newMock()
	want := errors.New("bad grid")
	s := New(clock, time.Second, func() error { return want })

	s.Notify()
	assert.ErrorIs(t, s.Flush(), want)
	assert.False(t, s.Pending())
}

func TestScheduler_Stop(t *testing.T) {
	clock := newMock()
	runs := 0
	s := New(clock, 50*time.Millisecond, func() error { runs++; return nil })

	s.Notify()
	s.Stop()
	clock.Advance(time.Second)
	assert.Equal(t, 0, runs)

	s.Notify()
	assert.Equal(t, Idle, s.State())
	assert.ErrorIs(t, s.Flush(), ErrStopped)
	s.Stop() // idempotent
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, 0, nil)
	assert.Equal(t, DefaultInterval, s.Interval())
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "scheduled", Scheduled.String())
	assert.Equal(t, "State(9)", State(9).String())

	// A nil RunFunc is tolerated.
	s.Notify()
	assert.NoError(t, s.Flush())
	s.Stop()
}

func TestScheduler_RealClockNeverOverlapsRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	var inFlight, maxInFlight, runs int32
	done := make(chan struct{}, 64)
	s := New(timeutil.RealClock{}, 2*time.Millisecond, func() error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&runs, 1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				s.Notify()
				time.Sleep(200 * time.Microsecond)
			}
		}()
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("no run completed")
	}
	_ = s.Flush()
	s.Stop()
	// Give any timer goroutine that already started time to finish.
	time.Sleep(20 * time.Millisecond)

	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(1))
	assert.Greater(t, atomic.LoadInt32(&runs), int32(0))
}
