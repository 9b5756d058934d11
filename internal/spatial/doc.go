// Package spatial provides a uniform-grid index over 2D pixel coordinates.
//
// The index answers radius queries ("all points within distance r of p") over
// point sets that are sparse after background removal, where grid-neighbor
// connectivity would be wrong and a full pairwise scan too slow. It is built
// once per segmentation run and is read-only afterwards, so concurrent queries
// from multiple goroutines are safe.
//
// # Structure
//
// Points are bucketed into square cells of a configurable size. Each cell holds
// an intrusive singly-linked chain of point indices (head/next slices), so the
// whole index is two int slices regardless of point count. A radius query scans
// only the cells overlapping the query disc and tests each chained point against
// the squared radius.
//
// Choosing the cell size close to the typical query radius keeps the scanned
// window at roughly 3x3 cells per query.
//
// # Determinism
//
// Within visits cells in a fixed row-major order and chains in their stored
// order, so for a given point set the result order is reproducible across runs.
// Callers that need index-order semantics must not depend on the result order
// being sorted.
package spatial
