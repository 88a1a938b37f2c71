// Package solver computes lattice resolutions and placement for meshes.
//
// Given a mesh's local bounding box and world transform, Solve picks an
// even per-axis control-point count proportional to the box's extents,
// optionally pins the axis best aligned with a chosen world direction at
// two points, and returns a uniform grid together with the world matrix
// that carries the unit cube onto the box.
//
// The solver is pure: it never touches a scene. Attaching the result to
// a mesh is the caller's job (see internal/ops).
package solver
