package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// LoadError reports a raster that could not be opened, decoded, or paired with
// its companion raster. It is fatal for the affected image only; a batch run
// continues with the next image.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ImageCache provides thread-safe caching of loaded images to avoid redundant
// disk reads.
//
// A segmentation run reads the same raster more than once (pixel extraction,
// then one crop per surviving object), and when cropping is enabled the
// original raster joins it. The cache keeps both decoded images around for the
// duration of one image's processing; call Evict when done to bound memory over
// a long batch.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Supported formats are PNG, JPEG, GIF, BMP, and TIFF. The image is cached
// under the exact path string provided; different spellings of the same path
// produce separate entries.
//
// Failures to open or decode are returned as *LoadError.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing. After eviction,
// the next Load call for this path reads from disk again.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// CheckDimensions verifies that two rasters of the same photograph have
// identical dimensions. The original and background-removed variants must
// agree pixel for pixel in extent; a mismatch means the upstream
// background-removal output does not belong to this original.
//
// A violation is returned as *LoadError for the second path.
func CheckDimensions(a image.Image, pathA string, b image.Image, pathB string) error {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return &LoadError{
			Path: pathB,
			Err: fmt.Errorf("dimensions %dx%d do not match %s (%dx%d)",
				bb.Dx(), bb.Dy(), pathA, ab.Dx(), ab.Dy()),
		}
	}
	return nil
}

// ImageInfo contains metadata about a loaded image file, reported alongside
// the segmentation statistics.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the image format guessed from the file extension:
	// "png", "jpeg", "gif", "bmp", "tiff", or "unknown".
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	// Relevant because fully transparent pixels count as background.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns metadata about it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("stat: %w", err)}
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	case ".tif", ".tiff":
		format = "tiff"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
