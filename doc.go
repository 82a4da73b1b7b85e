// Package mutationboard computes near-optimal placements of mutation tiles
// and their supporting crop cells on a bounded 10x10 board, subject to
// adjacency constraints between mutations, crops, and other mutations.
//
// The package exposes two entry points: Optimize, which satisfies a
// wishlist of mutation kinds and multiplicities, and OptimizeLayout, which
// maximizes a scalar objective over a free pool of allowed mutations. Both
// are pure CPU library calls with no I/O; callers supply the catalog, the
// unlocked cell set, and the workload, and get back a concrete board.
package mutationboard
