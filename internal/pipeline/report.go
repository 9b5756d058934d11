package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/object-crop-tools/internal/imaging"
)

// writeReport writes the per-image statistics file. A report is produced for
// every processed image, including empty ones, and keeps discarded groups
// distinguishable from failed artifact writes.
func (p *Pipeline) writeReport(outDir string, result *Result, paletteImg image.Image) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "sample: %s\n", result.Sample)
	fmt.Fprintf(&buf, "source: %s", filepath.Base(result.SourcePath))
	if info, err := imaging.LoadImageInfo(p.cache, result.SourcePath); err == nil {
		fmt.Fprintf(&buf, " (%s, %d bytes)", info.Format, info.FileSizeBytes)
	}
	buf.WriteByte('\n')
	if result.OriginalPath != "" {
		fmt.Fprintf(&buf, "original: %s\n", filepath.Base(result.OriginalPath))
	}
	fmt.Fprintf(&buf, "image: %dx%d\n", result.Width, result.Height)

	seg := p.cfg.Segmentation
	minLength := "null"
	if seg.MinLength != nil {
		minLength = fmt.Sprintf("%v", *seg.MinLength)
	}
	strategy := seg.LengthStrategy
	if strategy == "" {
		strategy = "bbox"
	}
	fmt.Fprintf(&buf, "parameters: max_distance=%v min_pixels=%d min_length=%s length_strategy=%s padding=%d cropping=%t\n",
		seg.MaxDistance, seg.MinPixels, minLength, strategy, p.cfg.Output.Padding, p.cfg.Output.Cropping)

	fmt.Fprintf(&buf, "non-background pixels: %d\n", result.PixelCount)
	fmt.Fprintf(&buf, "raw groups: %d\n", result.RawGroups)
	fmt.Fprintf(&buf, "surviving objects: %d (discarded %d, retained by length %d)\n",
		result.Surviving(), result.DiscardedSmall, result.RetainedByLength)

	if len(result.Records) > 0 {
		sizes := make([]float64, len(result.Records))
		minPx, maxPx := result.Records[0].PixelCount, result.Records[0].PixelCount
		for i, rec := range result.Records {
			sizes[i] = float64(rec.PixelCount)
			if rec.PixelCount < minPx {
				minPx = rec.PixelCount
			}
			if rec.PixelCount > maxPx {
				maxPx = rec.PixelCount
			}
		}
		stddev := 0.0
		if len(sizes) > 1 {
			stddev = stat.StdDev(sizes, nil)
		}
		fmt.Fprintf(&buf, "object pixels: mean=%.1f stddev=%.1f min=%d max=%d\n",
			stat.Mean(sizes, nil), stddev, minPx, maxPx)
	}

	if palette := imaging.DominantColors(paletteImg, 3); len(palette) > 0 {
		buf.WriteString("dominant colors:")
		for _, c := range palette {
			fmt.Fprintf(&buf, " %s(%.2f)", c.Hex, c.Weight)
		}
		buf.WriteByte('\n')
	}

	if len(result.Records) > 0 {
		buf.WriteString("objects:\n")
		for _, rec := range result.Records {
			fmt.Fprintf(&buf, "  %d: %d px, center (%.1f,%.1f), %dx%d\n",
				rec.ObjectID, rec.PixelCount, rec.Box.CenterX, rec.Box.CenterY,
				rec.Box.Width, rec.Box.Height)
		}
	}

	if len(result.CropFailures) > 0 {
		fmt.Fprintf(&buf, "failed writes: %d\n", len(result.CropFailures))
		for _, ce := range result.CropFailures {
			fmt.Fprintf(&buf, "  %v\n", ce)
		}
	}

	target := filepath.Join(outDir, statsName(result.Sample))
	if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing report %s: %w", target, err)
	}
	return nil
}
