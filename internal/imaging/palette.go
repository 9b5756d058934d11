package imaging

import (
	"image"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

// WeightedColor is one entry of an image's dominant palette: a hex color and
// the fraction of sampled pixels attributed to it.
type WeightedColor struct {
	Hex    string  `json:"hex"`
	Weight float64 `json:"weight"`
}

// DominantColors returns up to n palette entries for an image, heaviest first.
// The palette describes the photograph as a whole and goes into the run
// report; it plays no part in background filtering, which needs exact colors.
func DominantColors(img image.Image, n int) []WeightedColor {
	if n <= 0 {
		return nil
	}

	candidates := dominantcolor.FindWeight(img, n)
	out := make([]WeightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		out = append(out, WeightedColor{Hex: col.Clamped().Hex(), Weight: c.Weight})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}
