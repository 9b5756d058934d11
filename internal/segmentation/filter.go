package segmentation

import (
	"github.com/ironsheep/object-crop-tools/internal/spatial"
)

// Filter decides which raw groups are real objects.
//
// The base rule keeps a group when it has at least MinPixels members. When
// MinLength is set, an undersized group is still kept if its estimated length
// reaches *MinLength; thin elongated objects carry few pixels but plenty of
// extent. Length is only ever computed for undersized groups.
type Filter struct {
	MinPixels int
	MinLength *float64
	Length    LengthFunc
}

// Filtered is the survivor view of a raw labeling.
//
// Labels maps every point to its survivor id, contiguous from 0 in ascending
// raw id order, or -1 for points of discarded groups. Groups holds the point
// indices of each survivor in ascending index order; the inner slices share
// one backing array and must not be modified.
type Filtered struct {
	Labels []int
	Groups [][]int

	// Raw is the group count before filtering, DiscardedSmall the number of
	// groups rejected, and RetainedByLength the number of undersized groups
	// rescued by the length rule.
	Raw              int
	DiscardedSmall   int
	RetainedByLength int
}

// Apply partitions the raw labeling into survivors and discards.
func (f Filter) Apply(grid *spatial.Grid, raw Labeling) Filtered {
	n := grid.Len()

	// Bucket point indices per raw id into one arena. Raw ids are dense, so
	// counting sort keeps this allocation-light and map-free.
	counts := make([]int, raw.Groups)
	for _, l := range raw.Labels {
		counts[l]++
	}
	starts := make([]int, raw.Groups+1)
	for g := 0; g < raw.Groups; g++ {
		starts[g+1] = starts[g] + counts[g]
	}
	arena := make([]int, n)
	fill := make([]int, raw.Groups)
	copy(fill, starts[:raw.Groups])
	for i, l := range raw.Labels {
		arena[fill[l]] = i
		fill[l]++
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	var (
		groups    [][]int
		next      int
		discarded int
		retained  int
		pts       []spatial.Point
	)
	for g := 0; g < raw.Groups; g++ {
		members := arena[starts[g]:starts[g+1]]

		keep := len(members) >= f.MinPixels
		if !keep && f.MinLength != nil && f.Length != nil {
			pts = pts[:0]
			for _, i := range members {
				pts = append(pts, grid.Point(i))
			}
			if f.Length(pts) >= *f.MinLength {
				keep = true
				retained++
			}
		}
		if !keep {
			discarded++
			continue
		}

		for _, i := range members {
			labels[i] = next
		}
		groups = append(groups, members)
		next++
	}

	return Filtered{
		Labels:           labels,
		Groups:           groups,
		Raw:              raw.Groups,
		DiscardedSmall:   discarded,
		RetainedByLength: retained,
	}
}
