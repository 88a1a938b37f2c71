// Package lattice owns the deformation lattice data model.
//
// Responsibilities: the control-point grid and its index layout, the
// uniform unit-cube arrangement, interpolation modes, axis-lock metadata
// and the placement transform that maps the unit cube onto a mesh's
// bounding box.
// Key types: Grid, Resolution, LockMetadata, BoundingBox.
//
// Dependency rule: lattice never imports solver, deform or liveupdate.
// No SQL or scene-graph code is allowed in this package.
package lattice
