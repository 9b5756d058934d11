// Package imaging provides raster loading, background filtering, and cropping
// for the object segmentation pipeline.
//
// Each photograph exists as two rasters: the original and a background-removed
// variant produced by an upstream stage. This package loads both through a
// shared cache, verifies they have identical dimensions, extracts the
// non-background pixel records the segmenter works on, and cuts the final
// per-object crops.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Bounding boxes arriving from the segmentation layer use inclusive
// coordinates on all four sides; Crop converts them to the stdlib's
// exclusive-max rectangles internally.
//
// # Background Sentinel
//
// A pixel belongs to the background when its 8-bit RGB exactly equals the
// configured sentinel color, or when it is fully transparent. The sentinel is
// parsed from a "#RRGGBB" string, or detected as the image's dominant color
// when configured as "auto".
//
// # Supported Formats
//
// PNG, JPEG, and GIF decode through the stdlib; BMP and TIFF through
// golang.org/x/image. Crop artifacts are always written as PNG so repeated
// runs never accumulate lossy re-encodes.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining operations are
// stateless and can run concurrently on different images.
package imaging
