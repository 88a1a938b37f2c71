// Package visualise renders lattice grids for inspection: PNG projections
// and coordinate profiles with gonum/plot, and an interactive 3-D scatter
// page with go-echarts.
//
// Dependency rule: visualise imports lattice only. It does not know about
// scenes; callers pass a grid and the matrix that places it in the world.
package visualise
