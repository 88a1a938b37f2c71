// Package liveupdate coalesces rapid parameter edits into deferred
// deformation runs.
//
// A Scheduler is either Idle or Scheduled. Notify marks work pending and,
// from Idle, arms a single timer. When the timer fires the pending flag
// is cleared before the run, so edits that arrive while a run is in
// progress re-arm the timer instead of being lost. A run that fails or
// panics resets both the pending flag and the state, leaving the
// scheduler ready for the next Notify.
package liveupdate
