package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// Crop extracts the rectangular region with inclusive pixel coordinates
// (left,upper)-(right,lower) from an image.
//
// The coordinates follow the bounding-box convention used throughout the
// pipeline: both corners name pixels inside the region, so the result is
// (right-left+1) x (lower-upper+1) pixels. The region must lie entirely within
// the image.
func Crop(img image.Image, left, upper, right, lower int) (*image.NRGBA, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if left < 0 || upper < 0 || right >= w || lower >= h {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %dx%d",
			left, upper, right, lower, w, h)
	}
	if left > right || upper > lower {
		return nil, fmt.Errorf("invalid crop region (%d,%d)-(%d,%d): left must be <= right and upper <= lower",
			left, upper, right, lower)
	}

	rect := image.Rect(bounds.Min.X+left, bounds.Min.Y+upper, bounds.Min.X+right+1, bounds.Min.Y+lower+1)
	return imaging.Crop(img, rect), nil
}

// SaveCrop writes a crop artifact as a PNG file. PNG keeps the crops lossless
// regardless of the source raster's format.
func SaveCrop(img image.Image, path string) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
