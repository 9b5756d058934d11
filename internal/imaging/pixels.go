package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Pixel is one non-background pixel record: its 8-bit color and its original
// image coordinates. Records are produced once per image and are immutable
// afterwards.
type Pixel struct {
	R uint8
	G uint8
	B uint8
	X int
	Y int
}

// EmptyImageError reports a raster in which no pixel survived background
// filtering. It is a warning, not a crash: the image yields zero objects, and
// it usually means the upstream background-removal stage failed for this
// photograph.
type EmptyImageError struct {
	Path       string
	Background Background
}

func (e *EmptyImageError) Error() string {
	return fmt.Sprintf("no non-background pixels in %s (background %s)", e.Path, e.Background.Hex())
}

// ExtractPixels scans an image row-major and returns a record for every pixel
// that does not match the background sentinel. Coordinates are 0-based relative
// to the top-left corner and keep their original values; records are never
// renumbered or reordered after extraction.
//
// The scan works on an RGBA copy of the image so that pixel access cost does
// not depend on the decoded color model. 16-bit inputs are reduced to 8 bits
// per channel by the conversion.
func ExtractPixels(img image.Image, bg Background) []Pixel {
	rgba := clone.AsRGBA(img)
	bounds := rgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	records := make([]Pixel, 0, 1024)
	for y := 0; y < h; y++ {
		off := rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			r := rgba.Pix[off]
			g := rgba.Pix[off+1]
			b := rgba.Pix[off+2]
			a := rgba.Pix[off+3]
			off += 4
			if bg.Matches(r, g, b, a) {
				continue
			}
			records = append(records, Pixel{R: r, G: g, B: b, X: x, Y: y})
		}
	}
	return records
}
