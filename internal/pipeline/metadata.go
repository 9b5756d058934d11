package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ironsheep/object-crop-tools/internal/segmentation"
)

// ObjectRecord is the metadata emitted for one surviving object. Geometry
// fields describe the tight box; the padded box inside BoundingBox records
// what the crops were cut with.
type ObjectRecord struct {
	Sample       string                   `json:"sample"`
	SourceFile   string                   `json:"source_file"`
	OriginalFile string                   `json:"original_file,omitempty"`
	ImageWidth   int                      `json:"image_width"`
	ImageHeight  int                      `json:"image_height"`
	ObjectID     int                      `json:"object_id"`
	PixelCount   int                      `json:"pixel_count"`
	MeanColor    string                   `json:"mean_color,omitempty"`
	Box          segmentation.BoundingBox `json:"bounding_box"`
}

// Output filenames all derive deterministically from the sample name and the
// object id.

func objectCropName(sample string, id int) string {
	return fmt.Sprintf("%s_obj%d.png", sample, id)
}

func objectRemovedCropName(sample, suffix string, id int) string {
	return fmt.Sprintf("%s_obj%d%s.png", sample, id, suffix)
}

func objectMetaName(sample string, id int) string {
	return fmt.Sprintf("%s_obj%d.json", sample, id)
}

func combinedMetaName(sample string) string {
	return fmt.Sprintf("%s_objects.json", sample)
}

func statsName(sample string) string {
	return fmt.Sprintf("%s_stats.txt", sample)
}

// combinedRecords returns the records sorted by object id for the combined
// file. Ordering is re-established explicitly rather than assumed.
func combinedRecords(records []ObjectRecord) []ObjectRecord {
	out := make([]ObjectRecord, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool { return out[i].ObjectID < out[j].ObjectID })
	return out
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	return nil
}
