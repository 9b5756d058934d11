package pipeline

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ironsheep/object-crop-tools/internal/imaging"
)

// imageExtensions are the raster formats the loader can decode.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// ExpandInputs resolves file and directory arguments into the list of
// background-removed rasters to process. Directories contribute their image
// files whose stem carries the removed-suffix; explicit file arguments are
// taken as given. The result is sorted for a stable processing order.
func (p *Pipeline) ExpandInputs(args []string) ([]string, error) {
	suffix := p.cfg.Input.RemovedSuffix
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
				continue
			}
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			if !strings.HasSuffix(stem, suffix) {
				continue
			}
			paths = append(paths, filepath.Join(arg, name))
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no input images found (looking for *%s rasters)", suffix)
	}
	sort.Strings(paths)
	return paths, nil
}

// BatchSummary aggregates a batch run. Succeeded includes empty images; a
// failed image is one whose raster could not be loaded or paired.
type BatchSummary struct {
	Images       int
	Succeeded    int
	Empty        int
	Failed       int
	Objects      int
	CropFailures int
}

// RunBatch processes every path, several at a time when the configuration
// allows. Images share no mutable state, so workers need no coordination
// beyond the job feed. Per-image failures are logged and counted, never
// fatal to the batch.
func (p *Pipeline) RunBatch(paths []string) BatchSummary {
	workers := p.cfg.WorkerCount()
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx], errs[idx] = p.Run(paths[idx])
			}
		}()
	}
	for i := range paths {
		log.Printf("[%d/%d] %s", i+1, len(paths), paths[i])
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := BatchSummary{Images: len(paths)}
	for i := range paths {
		err := errs[i]
		var emptyErr *imaging.EmptyImageError
		switch {
		case err == nil:
			summary.Succeeded++
		case errors.As(err, &emptyErr):
			log.Printf("warning: %v", err)
			summary.Succeeded++
			summary.Empty++
		default:
			var loadErr *imaging.LoadError
			if errors.As(err, &loadErr) {
				log.Printf("error: %v", err)
			} else {
				log.Printf("error: %s: %v", paths[i], err)
			}
			summary.Failed++
			continue
		}

		if r := results[i]; r != nil {
			summary.Objects += len(r.Records)
			summary.CropFailures += len(r.CropFailures)
		}
	}

	log.Printf("batch done: %d images, %d ok (%d empty), %d failed, %d objects, %d failed writes",
		summary.Images, summary.Succeeded, summary.Empty, summary.Failed,
		summary.Objects, summary.CropFailures)
	return summary
}
