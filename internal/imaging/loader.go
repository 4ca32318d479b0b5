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

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ImageCache keeps decoded frames in memory keyed by their path string, so
// repeated tool calls on one frame decode it once. Frames stay cached until
// Evict or Clear; a relative and an absolute path to the same file are
// separate entries. Safe for concurrent use.
type ImageCache struct {
	mu     sync.RWMutex
	frames map[string]image.Image
}

func NewImageCache() *ImageCache {
	return &ImageCache{frames: map[string]image.Image{}}
}

// Load returns the frame at path, decoding it on first use.
func (c *ImageCache) Load(path string) (image.Image, error) {
	if img, ok := c.lookup(path); ok {
		return img, nil
	}
	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent Load may have won; keep its frame.
	if cached, ok := c.frames[path]; ok {
		return cached, nil
	}
	c.frames[path] = img
	return img, nil
}

func (c *ImageCache) lookup(path string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.frames[path]
	return img, ok
}

// Len returns the number of cached frames.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.frames)
}

// Clear drops every cached frame.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.frames)
}

// Evict drops the frame cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.frames, path)
}

// Open decodes the image file at path without caching it.
func Open(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SavePNG encodes img as PNG at path, creating or truncating the file.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// ImageInfo describes a frame file.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Format is taken from the file extension; "unknown" when unrecognized.
	Format     string `json:"format"`
	ColorDepth string `json:"color_depth"`
	HasAlpha   bool   `json:"has_alpha"`
	// FileSizeBytes is the size on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads the frame at path through cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	size := img.Bounds().Size()
	depth, alpha := pixelLayout(img)
	return &ImageInfo{
		Width:         size.X,
		Height:        size.Y,
		Format:        formatFromExt(path),
		ColorDepth:    depth,
		HasAlpha:      alpha,
		FileSizeBytes: fi.Size(),
	}, nil
}

// pixelLayout reports the per-channel depth and alpha presence of the
// decoder's concrete image type. Paletted and YCbCr frames count as 8-bit
// without alpha.
func pixelLayout(img image.Image) (depth string, alpha bool) {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64:
		return "16-bit", true
	case *image.Gray16:
		return "16-bit", false
	case *image.RGBA, *image.NRGBA:
		return "8-bit", true
	default:
		return "8-bit", false
	}
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}

// DimensionsResult is the size of a frame in pixels.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads the frame at path through cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	size := img.Bounds().Size()
	return &DimensionsResult{Width: size.X, Height: size.Y}, nil
}
