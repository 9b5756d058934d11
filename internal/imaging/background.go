package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/lucasb-eyer/go-colorful"
)

// AutoBackground is the configuration value that requests detecting the
// background sentinel from the image instead of parsing a fixed hex color.
const AutoBackground = "auto"

// Background is the sentinel color treated as "not part of any object" during
// pixel filtering. Comparison is exact on the 8-bit RGB components.
type Background struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the sentinel as "#rrggbb".
func (b Background) Hex() string {
	c := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	return c.Hex()
}

// Matches reports whether a pixel belongs to the background. Fully transparent
// pixels always count as background; opaque pixels match on exact RGB equality
// with the sentinel.
func (b Background) Matches(r, g, bl, a uint8) bool {
	if a == 0 {
		return true
	}
	return r == b.R && g == b.G && bl == b.B
}

// ParseBackground parses a "#RRGGBB" hex string into a Background sentinel.
func ParseBackground(s string) (Background, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Background{}, fmt.Errorf("invalid background color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Background{R: r, G: g, B: b}, nil
}

// DetectBackground returns the most frequent exact color of an image as the
// background sentinel. On a background-removed raster the fill painted over
// everything that is not an object outnumbers every object color, and pixel
// filtering compares for exact equality, so the sentinel must be an exact
// color present in the image rather than a cluster centroid.
//
// Fully transparent pixels are skipped; an image with no opaque pixels falls
// back to a white sentinel (transparency alone already marks it background).
func DetectBackground(img image.Image) Background {
	rgba := clone.AsRGBA(img)

	counts := make(map[uint32]int)
	var best uint32
	bestN := 0
	for off := 0; off < len(rgba.Pix); off += 4 {
		if rgba.Pix[off+3] == 0 {
			continue
		}
		key := uint32(rgba.Pix[off])<<16 | uint32(rgba.Pix[off+1])<<8 | uint32(rgba.Pix[off+2])
		counts[key]++
		if counts[key] > bestN {
			best, bestN = key, counts[key]
		}
	}
	if bestN == 0 {
		return Background{R: 255, G: 255, B: 255}
	}
	return Background{R: uint8(best >> 16), G: uint8(best >> 8), B: uint8(best)}
}

// ResolveBackground turns the configured background spec into a sentinel:
// either a fixed hex color, or AutoBackground to detect it from img.
func ResolveBackground(spec string, img image.Image) (Background, error) {
	if spec == AutoBackground {
		return DetectBackground(img), nil
	}
	return ParseBackground(spec)
}

// MeanColorHex averages the colors of the records selected by indices and
// returns the result as "#rrggbb". Returns an empty string for an empty
// selection.
func MeanColorHex(records []Pixel, indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	var r, g, b float64
	for _, i := range indices {
		r += float64(records[i].R)
		g += float64(records[i].G)
		b += float64(records[i].B)
	}
	n := float64(len(indices)) * 255
	c := colorful.Color{R: r / n, G: g / n, B: b / n}
	return c.Hex()
}
