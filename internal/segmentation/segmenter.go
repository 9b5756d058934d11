package segmentation

import (
	"github.com/ironsheep/object-crop-tools/internal/spatial"
)

// Segmenter assigns every indexed point to a connected component.
type Segmenter struct {
	// MaxDistance is the connectivity radius in pixel units. Two points at
	// Euclidean distance exactly MaxDistance are connected.
	MaxDistance float64

	// ChunkSize bounds how many seed candidates the outer scan visits between
	// Progress calls. Zero or negative means a single chunk. Chunking exists
	// only for reporting; it has no effect on the labeling.
	ChunkSize int

	// Progress, when non-nil, is invoked after each chunk with the number of
	// points scanned so far, the total point count, and the number of groups
	// found so far.
	Progress func(done, total, groups int)
}

// Labeling is the raw segmentation result: one group id per indexed point.
// Ids are dense, start at 0, and follow seed order; every point has one.
type Labeling struct {
	Labels []int
	Groups int
}

// Segment labels all points of the grid by breadth-first traversal.
//
// Points are scanned in index order. Each unlabeled point seeds a new group:
// it is labeled and enqueued, and the traversal repeatedly dequeues a point,
// queries the grid for neighbors within MaxDistance, and labels-and-enqueues
// every neighbor not labeled yet. Labeling at enqueue time guarantees each
// point enters the queue exactly once.
//
// Segment is a pure function of the grid contents and MaxDistance.
func (s Segmenter) Segment(grid *spatial.Grid) Labeling {
	n := grid.Len()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	chunk := s.ChunkSize
	if chunk <= 0 {
		chunk = n
	}

	groups := 0
	queue := make([]int, 0, 256)
	var hits []int

	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}

		for i := start; i < end; i++ {
			if labels[i] != -1 {
				continue
			}
			labels[i] = groups
			queue = append(queue[:0], i)

			for head := 0; head < len(queue); head++ {
				cur := queue[head]
				hits = grid.Within(grid.Point(cur), s.MaxDistance, hits[:0])
				for _, j := range hits {
					if labels[j] == -1 {
						labels[j] = groups
						queue = append(queue, j)
					}
				}
			}
			groups++
		}

		if s.Progress != nil {
			s.Progress(end, n, groups)
		}
	}

	return Labeling{Labels: labels, Groups: groups}
}
