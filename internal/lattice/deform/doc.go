// Package deform reshapes lattice grids in place.
//
// A deformation runs up to four passes over each targeted grid, in order:
//
//  1. reset every point to the uniform unit-cube layout (optional);
//  2. shift-and-relax: pull the second point of every line toward its
//     boundary neighbour and spread the interior evenly between the two
//     moved anchors, independently along u, then v, then w;
//  3. ramped offset: translate points by an offset weighted 0 at the
//     low boundary rows and 1 at the high rows, skipping the locked axis;
//  4. conditional scale: multiply coordinates by the scale factor, only
//     on axes where a shift actually ran.
//
// Passes are exported individually so tooling can preview them one at a
// time. Apply runs the full pipeline and is the normal entry point.
package deform
