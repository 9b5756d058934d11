package pipeline

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/object-crop-tools/internal/config"
	"github.com/ironsheep/object-crop-tools/internal/imaging"
	"github.com/ironsheep/object-crop-tools/internal/segmentation"
	"github.com/ironsheep/object-crop-tools/internal/spatial"
)

// CropError reports a failure writing one crop or metadata artifact. It is
// logged and recorded; the remaining objects of the image still process.
type CropError struct {
	Path     string
	ObjectID int
	Err      error
}

func (e *CropError) Error() string {
	return fmt.Sprintf("object %d: writing %s: %v", e.ObjectID, e.Path, e.Err)
}

func (e *CropError) Unwrap() error { return e.Err }

// Result is everything one image run produced.
type Result struct {
	// Sample is the image stem with the removed-suffix stripped; all output
	// filenames derive from it.
	Sample string

	// SourcePath is the background-removed raster the run consumed;
	// OriginalPath the paired original, empty when it was not needed.
	SourcePath   string
	OriginalPath string

	Width  int
	Height int

	// PixelCount is the number of non-background pixels.
	PixelCount int

	// Labels assigns every extracted pixel its surviving object id, or -1.
	Labels []int

	RawGroups        int
	DiscardedSmall   int
	RetainedByLength int

	Boxes   []segmentation.BoundingBox
	Records []ObjectRecord

	// CropFailures lists artifacts that could not be written.
	CropFailures []*CropError
}

// Surviving returns the number of objects that passed filtering.
func (r *Result) Surviving() int { return len(r.Boxes) }

// Pipeline executes the segmentation stages for one image at a time. A single
// Pipeline may be shared by concurrent batch workers; all mutable state lives
// in the concurrency-safe image cache.
type Pipeline struct {
	cfg    *config.Config
	cache  *imaging.ImageCache
	length segmentation.LengthFunc
}

// New validates the configuration and builds a Pipeline. A *config.ValidationError
// here is the only error class that prevents a run from starting at all.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		cache:  imaging.NewImageCache(),
		length: cfg.LengthFunc(),
	}, nil
}

// Run processes one background-removed raster end to end and writes all
// configured artifacts next to it (or into the configured output directory).
//
// On an all-background raster Run writes the statistics report, returns the
// zero-object Result together with an *imaging.EmptyImageError, and the
// caller treats it as a warning rather than a failure.
func (p *Pipeline) Run(path string) (*Result, error) {
	sample, originalPath := p.splitSample(path)
	if !p.cfg.Output.Cropping {
		// Without cropping the original is never loaded or verified, so no
		// artifact should claim it.
		originalPath = ""
	}

	removed, err := p.cache.Load(path)
	if err != nil {
		return nil, err
	}
	defer p.cache.Evict(path)

	// The original raster is only required for cropping; its dimensions must
	// agree with the removed raster, checked at load time.
	var original image.Image
	if p.cfg.Output.Cropping {
		if originalPath == "" {
			return nil, &imaging.LoadError{
				Path: path,
				Err: fmt.Errorf("no %q suffix in filename stem, cannot locate the original raster for cropping",
					p.cfg.Input.RemovedSuffix),
			}
		}
		original, err = p.cache.Load(originalPath)
		if err != nil {
			return nil, err
		}
		defer p.cache.Evict(originalPath)
		if err := imaging.CheckDimensions(removed, path, original, originalPath); err != nil {
			return nil, err
		}
	}

	bounds := removed.Bounds()
	result := &Result{
		Sample:       sample,
		SourcePath:   path,
		OriginalPath: originalPath,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	}

	outDir := p.cfg.Output.Directory
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	bg, err := imaging.ResolveBackground(p.cfg.Input.Background, removed)
	if err != nil {
		return nil, err
	}

	pixels := imaging.ExtractPixels(removed, bg)
	result.PixelCount = len(pixels)
	if len(pixels) == 0 {
		emptyErr := &imaging.EmptyImageError{Path: path, Background: bg}
		if err := p.writeReport(outDir, result, p.paletteSource(original, removed)); err != nil {
			return nil, err
		}
		return result, emptyErr
	}

	points := make([]spatial.Point, len(pixels))
	for i, px := range pixels {
		points[i] = spatial.Point{X: px.X, Y: px.Y}
	}
	grid := spatial.NewGrid(points, p.cfg.Segmentation.MaxDistance)

	segmenter := segmentation.Segmenter{
		MaxDistance: p.cfg.Segmentation.MaxDistance,
		ChunkSize:   p.cfg.Segmentation.ChunkSize,
		Progress: func(done, total, groups int) {
			if done < total {
				log.Printf("%s: scanned %d/%d pixels, %d raw groups", sample, done, total, groups)
			}
		},
	}
	raw := segmenter.Segment(grid)
	result.RawGroups = raw.Groups

	filtered := segmentation.Filter{
		MinPixels: p.cfg.Segmentation.MinPixels,
		MinLength: p.cfg.Segmentation.MinLength,
		Length:    p.length,
	}.Apply(grid, raw)
	result.Labels = filtered.Labels
	result.DiscardedSmall = filtered.DiscardedSmall
	result.RetainedByLength = filtered.RetainedByLength

	result.Boxes = segmentation.ExtractBoxes(grid, filtered.Groups,
		p.cfg.Output.Padding, result.Width, result.Height)

	result.Records = p.buildRecords(result, pixels, filtered.Groups)

	if p.cfg.Output.Cropping {
		p.writeCrops(outDir, result, removed, original)
	}
	p.writeMetadata(outDir, result)

	if err := p.writeReport(outDir, result, p.paletteSource(original, removed)); err != nil {
		return nil, err
	}
	return result, nil
}

// splitSample derives the sample name and the original-raster path from a
// background-removed raster path. A stem without the configured suffix yields
// the stem itself and no original.
func (p *Pipeline) splitSample(path string) (sample, originalPath string) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	suffix := p.cfg.Input.RemovedSuffix
	if !strings.HasSuffix(stem, suffix) || stem == suffix {
		return stem, ""
	}
	sample = strings.TrimSuffix(stem, suffix)
	return sample, filepath.Join(filepath.Dir(path), sample+ext)
}

// paletteSource picks the raster the report palette describes: the original
// photograph when loaded, otherwise the removed raster.
func (p *Pipeline) paletteSource(original, removed image.Image) image.Image {
	if original != nil {
		return original
	}
	return removed
}

// writeCrops cuts both rasters with each object's padded box. Failures are
// collected per object; one bad write never stops the rest.
func (p *Pipeline) writeCrops(outDir string, result *Result, removed, original image.Image) {
	for id, box := range result.Boxes {
		pb := box.Padded

		for _, job := range []struct {
			src  image.Image
			name string
		}{
			{original, objectCropName(result.Sample, id)},
			{removed, objectRemovedCropName(result.Sample, p.cfg.Input.RemovedSuffix, id)},
		} {
			target := filepath.Join(outDir, job.name)
			crop, err := imaging.Crop(job.src, pb.Left, pb.Upper, pb.Right, pb.Lower)
			if err == nil {
				err = imaging.SaveCrop(crop, target)
			}
			if err != nil {
				cropErr := &CropError{Path: target, ObjectID: id, Err: err}
				log.Printf("%s: %v", result.Sample, cropErr)
				result.CropFailures = append(result.CropFailures, cropErr)
			}
		}
	}
}

// writeMetadata writes one JSON record per object and, when configured, the
// combined per-image file. Write failures are recorded like crop failures.
func (p *Pipeline) writeMetadata(outDir string, result *Result) {
	for _, rec := range result.Records {
		target := filepath.Join(outDir, objectMetaName(result.Sample, rec.ObjectID))
		if err := writeJSON(target, rec); err != nil {
			cropErr := &CropError{Path: target, ObjectID: rec.ObjectID, Err: err}
			log.Printf("%s: %v", result.Sample, cropErr)
			result.CropFailures = append(result.CropFailures, cropErr)
		}
	}

	if !p.cfg.Output.CombinedMetadata {
		return
	}
	target := filepath.Join(outDir, combinedMetaName(result.Sample))
	if err := writeJSON(target, combinedRecords(result.Records)); err != nil {
		cropErr := &CropError{Path: target, ObjectID: -1, Err: err}
		log.Printf("%s: %v", result.Sample, cropErr)
		result.CropFailures = append(result.CropFailures, cropErr)
	}
}

// buildRecords assembles the metadata record for every surviving object, in
// ascending id order.
func (p *Pipeline) buildRecords(result *Result, pixels []imaging.Pixel, groups [][]int) []ObjectRecord {
	records := make([]ObjectRecord, len(groups))
	for id, members := range groups {
		records[id] = ObjectRecord{
			Sample:       result.Sample,
			SourceFile:   filepath.Base(result.SourcePath),
			OriginalFile: baseOrEmpty(result.OriginalPath),
			ImageWidth:   result.Width,
			ImageHeight:  result.Height,
			ObjectID:     id,
			PixelCount:   len(members),
			MeanColor:    imaging.MeanColorHex(pixels, members),
			Box:          result.Boxes[id],
		}
	}
	return records
}

func baseOrEmpty(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
