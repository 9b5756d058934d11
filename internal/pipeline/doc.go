// Package pipeline drives the full per-image flow: load the
// background-removed raster, extract non-background pixels, segment them into
// objects, filter noise, compute bounding boxes, and write crops, metadata,
// and a statistics report.
//
// # Error Policy
//
// Failures are scoped as narrowly as possible. A configuration problem aborts
// before any image is touched. An unreadable or mispaired raster fails that
// image only; a batch moves on. An all-background raster is a warning that
// yields zero objects. A failed crop write is logged and recorded while the
// remaining objects of the same image still process. The statistics report
// always distinguishes discarded groups from failed crop writes.
//
// # Concurrency
//
// One image is processed start to finish by one goroutine; a batch may run
// several images at once since they share no mutable state beyond the
// concurrency-safe image cache.
package pipeline
