package segmentation

import (
	"reflect"
	"testing"

	"github.com/ironsheep/object-crop-tools/internal/spatial"
)

func floatPtr(v float64) *float64 { return &v }

func TestApply_MinPixels(t *testing.T) {
	// Two clusters of sizes 3 and 2; only the first meets min_pixels=3.
	pts := []spatial.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		{X: 50, Y: 50}, {X: 51, Y: 50},
	}
	grid := spatial.NewGrid(pts, 2)
	raw := Segmenter{MaxDistance: 2}.Segment(grid)

	filtered := Filter{MinPixels: 3}.Apply(grid, raw)

	if want := []int{0, 0, 0, -1, -1}; !reflect.DeepEqual(filtered.Labels, want) {
		t.Errorf("labels: got %v, want %v", filtered.Labels, want)
	}
	if len(filtered.Groups) != 1 {
		t.Fatalf("surviving groups: got %d, want 1", len(filtered.Groups))
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(filtered.Groups[0], want) {
		t.Errorf("group members: got %v, want %v", filtered.Groups[0], want)
	}
	if filtered.Raw != 2 || filtered.DiscardedSmall != 1 || filtered.RetainedByLength != 0 {
		t.Errorf("counters: raw=%d discarded=%d retained=%d",
			filtered.Raw, filtered.DiscardedSmall, filtered.RetainedByLength)
	}
}

func TestApply_RelabelsByRawID(t *testing.T) {
	// Three clusters sized 4, 2, 3: with min_pixels=3 the survivors are raw
	// ids 0 and 2, relabeled 0 and 1 in that order.
	pts := []spatial.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
		{X: 40, Y: 40}, {X: 41, Y: 40},
		{X: 80, Y: 80}, {X: 81, Y: 80}, {X: 80, Y: 81},
	}
	grid := spatial.NewGrid(pts, 2)
	raw := Segmenter{MaxDistance: 2}.Segment(grid)
	if raw.Groups != 3 {
		t.Fatalf("setup: expected 3 raw groups, got %d", raw.Groups)
	}

	filtered := Filter{MinPixels: 3}.Apply(grid, raw)

	want := []int{0, 0, 0, 0, -1, -1, 1, 1, 1}
	if !reflect.DeepEqual(filtered.Labels, want) {
		t.Errorf("labels: got %v, want %v", filtered.Labels, want)
	}
}

func TestApply_LengthRetention(t *testing.T) {
	// A thin line of 30 pixels: far below min_pixels, but 29 units long.
	pts := make([]spatial.Point, 30)
	for i := range pts {
		pts[i] = spatial.Point{X: i, Y: 0}
	}
	grid := spatial.NewGrid(pts, 2)
	raw := Segmenter{MaxDistance: 2}.Segment(grid)

	kept := Filter{MinPixels: 100, MinLength: floatPtr(25), Length: BBoxLength}.Apply(grid, raw)
	if len(kept.Groups) != 1 || kept.RetainedByLength != 1 {
		t.Errorf("line of length 29 should be retained: groups=%d retained=%d",
			len(kept.Groups), kept.RetainedByLength)
	}

	dropped := Filter{MinPixels: 100, MinLength: floatPtr(40), Length: BBoxLength}.Apply(grid, raw)
	if len(dropped.Groups) != 0 || dropped.DiscardedSmall != 1 {
		t.Errorf("line of length 29 should be discarded at min_length=40: groups=%d discarded=%d",
			len(dropped.Groups), dropped.DiscardedSmall)
	}
}

func TestApply_LengthNotComputedForBigGroups(t *testing.T) {
	pts := []spatial.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
	}
	grid := spatial.NewGrid(pts, 2)
	raw := Segmenter{MaxDistance: 2}.Segment(grid)

	calls := 0
	counting := func(pts []spatial.Point) float64 {
		calls++
		return BBoxLength(pts)
	}

	Filter{MinPixels: 2, MinLength: floatPtr(1), Length: counting}.Apply(grid, raw)
	if calls != 0 {
		t.Errorf("length computed %d times for a group already over min_pixels", calls)
	}
}

func TestApply_NilMinLengthDisablesRetention(t *testing.T) {
	pts := make([]spatial.Point, 30)
	for i := range pts {
		pts[i] = spatial.Point{X: i, Y: 0}
	}
	grid := spatial.NewGrid(pts, 2)
	raw := Segmenter{MaxDistance: 2}.Segment(grid)

	filtered := Filter{MinPixels: 100, Length: BBoxLength}.Apply(grid, raw)
	if len(filtered.Groups) != 0 {
		t.Errorf("without min_length the undersized line must be discarded, got %d groups",
			len(filtered.Groups))
	}
}

func TestApply_PartitionInvariant(t *testing.T) {
	pts := randomPoints(500, 60, 19)
	grid := spatial.NewGrid(pts, 3)
	raw := Segmenter{MaxDistance: 3}.Segment(grid)

	filtered := Filter{MinPixels: 4}.Apply(grid, raw)

	// Every point is either discarded or in exactly one surviving group, and
	// group membership agrees with the label array.
	members := 0
	for gi, group := range filtered.Groups {
		members += len(group)
		for _, i := range group {
			if filtered.Labels[i] != gi {
				t.Fatalf("point %d in group %d has label %d", i, gi, filtered.Labels[i])
			}
		}
	}
	discarded := 0
	for i, l := range filtered.Labels {
		if l == -1 {
			discarded++
		} else if l < 0 || l >= len(filtered.Groups) {
			t.Fatalf("point %d has invalid label %d", i, l)
		}
	}
	if members+discarded != grid.Len() {
		t.Errorf("partition broken: %d members + %d discarded != %d points",
			members, discarded, grid.Len())
	}
	if filtered.Raw != raw.Groups {
		t.Errorf("raw count: got %d, want %d", filtered.Raw, raw.Groups)
	}
	if len(filtered.Groups)+filtered.DiscardedSmall != filtered.Raw {
		t.Errorf("survivors %d + discarded %d != raw %d",
			len(filtered.Groups), filtered.DiscardedSmall, filtered.Raw)
	}
}

func TestApply_MinPixelsMonotonicity(t *testing.T) {
	pts := randomPoints(500, 60, 23)
	grid := spatial.NewGrid(pts, 3)
	raw := Segmenter{MaxDistance: 3}.Segment(grid)

	prev := -1
	for _, min := range []int{1, 2, 4, 8, 1000} {
		filtered := Filter{MinPixels: min}.Apply(grid, raw)
		if prev != -1 && len(filtered.Groups) > prev {
			t.Errorf("raising min_pixels to %d increased survivors to %d", min, len(filtered.Groups))
		}
		prev = len(filtered.Groups)
	}
}

func TestApply_Empty(t *testing.T) {
	grid := spatial.NewGrid(nil, 4)
	raw := Segmenter{MaxDistance: 4}.Segment(grid)

	filtered := Filter{MinPixels: 1}.Apply(grid, raw)
	if len(filtered.Groups) != 0 || len(filtered.Labels) != 0 || filtered.Raw != 0 {
		t.Errorf("empty input: %+v", filtered)
	}
}
