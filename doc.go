// Package neighbor3d implements a parallel spatial neighborhood search
// engine for 3D point clouds.
//
// A Searcher maintains one or more point sets embedded in R^3 and, for a
// fixed cutoff radius, materializes the directed neighbor relation between
// ordered pairs of sets. It supports all-pairs queries, single-point
// queries against an indexed set or an ad-hoc coordinate, incremental
// position updates on dynamic sets, point-set resize, per-pair activation
// toggling, empty-cell eviction and a Morton-order reindexing pass.
package neighbor3d
