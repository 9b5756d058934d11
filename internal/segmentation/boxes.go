package segmentation

import (
	"github.com/ironsheep/object-crop-tools/internal/spatial"
)

// Box is an axis-aligned pixel rectangle with inclusive corners: both
// (Left,Upper) and (Right,Lower) name pixels inside the box.
type Box struct {
	Left  int `json:"left"`
	Upper int `json:"upper"`
	Right int `json:"right"`
	Lower int `json:"lower"`
}

// Width returns the horizontal pixel count of the box.
func (b Box) Width() int { return b.Right - b.Left + 1 }

// Height returns the vertical pixel count of the box.
func (b Box) Height() int { return b.Lower - b.Upper + 1 }

// Contains reports whether o lies entirely inside b.
func (b Box) Contains(o Box) bool {
	return b.Left <= o.Left && b.Upper <= o.Upper && b.Right >= o.Right && b.Lower >= o.Lower
}

// BoundingBox is the recorded geometry of one object.
//
// Center, Width, and Height describe the tight box; the padded box exists
// only to cut crops with context around the object and never enters the
// geometry fields.
type BoundingBox struct {
	Tight   Box     `json:"tight"`
	Padded  Box     `json:"padded"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

// ExtractBoxes computes one BoundingBox per surviving group for an image of
// the given dimensions. Groups hold point indices into the grid, as produced
// by Filter.Apply; the output is index-aligned with them.
//
// Padding is applied per side: an edge already on the image boundary stays
// put, an edge within padding of the boundary snaps onto it, and any other
// edge moves outward by exactly padding pixels. The padded box therefore
// always contains the tight box and never leaves the image.
func ExtractBoxes(grid *spatial.Grid, groups [][]int, padding, width, height int) []BoundingBox {
	boxes := make([]BoundingBox, len(groups))
	for gi, members := range groups {
		p0 := grid.Point(members[0])
		minX, minY := p0.X, p0.Y
		maxX, maxY := minX, minY
		for _, i := range members[1:] {
			p := grid.Point(i)
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}

		tight := Box{Left: minX, Upper: minY, Right: maxX, Lower: maxY}
		padded := Box{
			Left:  padLow(minX, padding),
			Upper: padLow(minY, padding),
			Right: padHigh(maxX, padding, width-1),
			Lower: padHigh(maxY, padding, height-1),
		}

		boxes[gi] = BoundingBox{
			Tight:   tight,
			Padded:  padded,
			CenterX: float64(minX+maxX) / 2,
			CenterY: float64(minY+maxY) / 2,
			Width:   tight.Width(),
			Height:  tight.Height(),
		}
	}
	return boxes
}

// padLow pads an edge toward coordinate 0. An edge at 0 stays, an edge within
// p of 0 snaps to 0, any other edge moves to v-p.
func padLow(v, p int) int {
	if v <= p {
		return 0
	}
	return v - p
}

// padHigh pads an edge toward the far boundary max (width-1 or height-1),
// mirroring padLow.
func padHigh(v, p, max int) int {
	if v >= max-p {
		return max
	}
	return v + p
}
