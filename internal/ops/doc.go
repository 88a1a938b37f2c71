// Package ops implements the lattice operators that act on a scene
// selection: create, delete, release, interpolation, deform, reset and the
// debounced live updater.
//
// Responsibilities:
//   - resolve which meshes and lattices an operator targets
//   - run the solver and the deformation engine over those targets
//   - keep bindings, parenting and lock metadata consistent
//   - report per-operator results the way the host surfaces them
//
// Key types:
//   - Report: level, messages, counts and per-target failures
//   - LatticeOptions: solver inputs shared by every created lattice
//   - LiveUpdater: scheduler-driven deform of the current selection
//
// Dependency rule: ops may import lattice, solver, deform, liveupdate,
// scene, config and timeutil. Nothing under internal/ imports ops.
package ops
