package segmentation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/object-crop-tools/internal/spatial"
)

// LengthFunc estimates how long an object is from its pixel coordinates.
// Every strategy returns a value >= 0 and returns 0 for fewer than two points.
type LengthFunc func(pts []spatial.Point) float64

// LengthStrategy maps a configured strategy name to its function. The empty
// name selects the default, bbox.
func LengthStrategy(name string) (LengthFunc, error) {
	switch name {
	case "", "bbox":
		return BBoxLength, nil
	case "pca":
		return PCALength, nil
	case "skeleton":
		return SkeletonLength, nil
	}
	return nil, fmt.Errorf("unknown length strategy %q (want bbox, pca, or skeleton)", name)
}

// BBoxLength estimates length as the diagonal of the tight bounding box.
// Cheapest strategy and the default; overestimates for L-shaped objects and
// underestimates nothing.
func BBoxLength(pts []spatial.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
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
	return math.Hypot(float64(maxX-minX), float64(maxY-minY))
}

// PCALength estimates length as the coordinate extent along the group's
// principal axis. More faithful than bbox for thin objects rotated away from
// the axes, since the box diagonal of a rotated strip includes its width.
func PCALength(pts []spatial.Point) float64 {
	if len(pts) < 2 {
		return 0
	}

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}

	covXX := stat.Variance(xs, nil)
	covYY := stat.Variance(ys, nil)
	covXY := stat.Covariance(xs, ys, nil)

	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymDense(2, []float64{covXX, covXY, covXY, covYY}), true) {
		return BBoxLength(pts)
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back ascending, so the principal axis is column 1.
	vx, vy := vecs.At(0, 1), vecs.At(1, 1)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range xs {
		proj := xs[i]*vx + ys[i]*vy
		if proj < lo {
			lo = proj
		}
		if proj > hi {
			hi = proj
		}
	}
	return hi - lo
}

// SkeletonLength estimates length by thinning the group to a one-pixel-wide
// skeleton and summing its polyline segments: 1 per orthogonal neighbor pair,
// sqrt(2) per diagonal pair. Most faithful for curved objects and the most
// expensive strategy.
func SkeletonLength(pts []spatial.Point) float64 {
	if len(pts) < 2 {
		return 0
	}

	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
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
	w := maxX - minX + 1
	h := maxY - minY + 1

	mask := make([]bool, w*h)
	for _, p := range pts {
		mask[(p.Y-minY)*w+(p.X-minX)] = true
	}
	thin(mask, w, h)

	// Count each adjacency once by only looking east, south, and the two
	// downward diagonals from every skeleton pixel.
	total := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask[y*w+x] {
				continue
			}
			if x+1 < w && mask[y*w+x+1] {
				total++
			}
			if y+1 < h && mask[(y+1)*w+x] {
				total++
			}
			if x+1 < w && y+1 < h && mask[(y+1)*w+x+1] {
				total += math.Sqrt2
			}
			if x-1 >= 0 && y+1 < h && mask[(y+1)*w+x-1] {
				total += math.Sqrt2
			}
		}
	}
	return total
}

// thin reduces a binary mask to its Zhang-Suen skeleton in place.
func thin(mask []bool, w, h int) {
	at := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return mask[y*w+x]
	}

	var del []int
	for {
		changed := false
		for pass := 0; pass < 2; pass++ {
			del = del[:0]
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if !mask[y*w+x] {
						continue
					}

					// Neighbors clockwise from north: p2..p9.
					p2 := at(x, y-1)
					p3 := at(x+1, y-1)
					p4 := at(x+1, y)
					p5 := at(x+1, y+1)
					p6 := at(x, y+1)
					p7 := at(x-1, y+1)
					p8 := at(x-1, y)
					p9 := at(x-1, y-1)

					ring := [8]bool{p2, p3, p4, p5, p6, p7, p8, p9}
					b := 0
					for _, v := range ring {
						if v {
							b++
						}
					}
					if b < 2 || b > 6 {
						continue
					}

					a := 0
					for i := 0; i < 8; i++ {
						if !ring[i] && ring[(i+1)%8] {
							a++
						}
					}
					if a != 1 {
						continue
					}

					if pass == 0 {
						if (p2 && p4 && p6) || (p4 && p6 && p8) {
							continue
						}
					} else {
						if (p2 && p4 && p8) || (p2 && p6 && p8) {
							continue
						}
					}
					del = append(del, y*w+x)
				}
			}
			for _, idx := range del {
				mask[idx] = false
			}
			if len(del) > 0 {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
