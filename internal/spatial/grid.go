package spatial

import "math"

// Point is a 2D pixel coordinate.
type Point struct {
	X int
	Y int
}

// Grid is a uniform-cell spatial index over a fixed set of points.
//
// The zero value is not usable; construct with NewGrid. Once built, a Grid is
// immutable and safe for concurrent queries.
type Grid struct {
	points   []Point
	cellSize float64

	// Bounding box of the point set; cell coordinates are relative to (minX, minY).
	minX, minY int
	cols, rows int

	// Intrusive chains: head[cell] is the first point index in a cell,
	// next[i] the following point in the same cell, -1 terminates.
	head []int
	next []int
}

// NewGrid builds an index over points using square cells of the given size.
//
// Cell sizes at or below zero are clamped to 1. For radius queries, a cell size
// near the expected query radius keeps the scanned window small. The points
// slice is retained by the Grid and must not be mutated afterwards.
func NewGrid(points []Point, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}

	g := &Grid{
		points:   points,
		cellSize: cellSize,
		cols:     1,
		rows:     1,
	}

	if len(points) > 0 {
		minX, minY := points[0].X, points[0].Y
		maxX, maxY := minX, minY
		for _, p := range points[1:] {
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
		g.minX, g.minY = minX, minY
		g.cols = int(float64(maxX-minX)/cellSize) + 1
		g.rows = int(float64(maxY-minY)/cellSize) + 1
	}

	g.head = make([]int, g.cols*g.rows)
	for i := range g.head {
		g.head[i] = -1
	}
	g.next = make([]int, len(points))
	for i, p := range points {
		cell := g.cellIndex(p.X, p.Y)
		g.next[i] = g.head[cell]
		g.head[cell] = i
	}

	return g
}

// Len returns the number of indexed points.
func (g *Grid) Len() int {
	return len(g.points)
}

// Point returns the point at index i.
func (g *Grid) Point(i int) Point {
	return g.points[i]
}

// Within appends the indices of all points whose Euclidean distance to p is at
// most r (inclusive) and returns the extended slice. Pass a reused buffer as
// out to avoid allocation across queries; pass nil to allocate fresh.
//
// The query point itself is included when it is part of the indexed set.
func (g *Grid) Within(p Point, r float64, out []int) []int {
	if len(g.points) == 0 || r < 0 {
		return out
	}
	r2 := r * r

	gx0 := g.clampCol(math.Floor((float64(p.X) - r - float64(g.minX)) / g.cellSize))
	gx1 := g.clampCol(math.Floor((float64(p.X) + r - float64(g.minX)) / g.cellSize))
	gy0 := g.clampRow(math.Floor((float64(p.Y) - r - float64(g.minY)) / g.cellSize))
	gy1 := g.clampRow(math.Floor((float64(p.Y) + r - float64(g.minY)) / g.cellSize))

	for gy := gy0; gy <= gy1; gy++ {
		row := gy * g.cols
		for gx := gx0; gx <= gx1; gx++ {
			for i := g.head[row+gx]; i != -1; i = g.next[i] {
				dx := g.points[i].X - p.X
				dy := g.points[i].Y - p.Y
				if float64(dx*dx+dy*dy) <= r2 {
					out = append(out, i)
				}
			}
		}
	}
	return out
}

func (g *Grid) cellIndex(x, y int) int {
	gx := int(float64(x-g.minX) / g.cellSize)
	gy := int(float64(y-g.minY) / g.cellSize)
	return gy*g.cols + gx
}

func (g *Grid) clampCol(v float64) int {
	if v < 0 {
		return 0
	}
	if c := int(v); c < g.cols {
		return c
	}
	return g.cols - 1
}

func (g *Grid) clampRow(v float64) int {
	if v < 0 {
		return 0
	}
	if r := int(v); r < g.rows {
		return r
	}
	return g.rows - 1
}
