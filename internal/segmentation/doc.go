// Package segmentation partitions non-background pixels into objects by
// spatial proximity and derives per-object geometry.
//
// # Pipeline Position
//
// The package consumes an immutable spatial index of pixel coordinates and
// produces, in order: a raw labeling (every point gets a group id), a filtered
// labeling (small groups discarded, survivors relabeled from 0), and one
// bounding box per surviving group. It never touches image files; raster I/O
// belongs to the imaging package.
//
// # Connectivity Model
//
// Two pixels belong to the same raw group when a chain of pixels connects
// them with every hop at Euclidean distance <= MaxDistance. This is graph
// connectivity over a radius, not 4- or 8-neighbor adjacency: after
// background removal the surviving coordinates are sparse, and objects must
// survive small gaps.
//
// # Determinism
//
// Group ids depend only on the point order of the index: the outer scan
// visits points in index order, so raw group k is seeded by the lowest-index
// point not reached from any earlier seed. Progress chunking and queue order
// never influence the labeling. Filtering relabels survivors by ascending raw
// id. Two runs over the same input produce identical output.
package segmentation
