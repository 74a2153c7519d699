package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultCacheEntries is the default cache_entries setting.
const DefaultCacheEntries = 32

// ImageCache keeps decoded rasters keyed by file path so repeated tool calls
// on the same file skip disk I/O and decoding.
//
// The cache is bounded: once it holds its maximum number of entries, the
// least recently used raster is dropped. Cached rasters are shared between
// callers, which is safe because rasters are never modified after decoding.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCacheSize(imaging.DefaultCacheEntries)
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := imaging.Transform(img, req)
type ImageCache struct {
	mu     sync.Mutex
	images *lru.Cache
}

// NewImageCacheSize creates a cache holding up to entries images. A value
// below one is treated as one.
func NewImageCacheSize(entries int) *ImageCache {
	return &ImageCache{
		images: lru.New(atLeastOne(entries)),
	}
}

// Load returns the cached raster for path, decoding the file on a miss.
//
// The image is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) result in separate entries.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns an ErrDecode error if the file is not a decodable image
func (c *ImageCache) Load(path string) (*Raster, error) {
	c.mu.Lock()
	if v, ok := c.images.Get(path); ok {
		c.mu.Unlock()
		return v.(*Raster), nil
	}
	c.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images.Add(path, img)
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images.Len()
}

// Evict removes the image cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	c.images.Remove(path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format implied by the file extension: "png", "jpeg",
	// "gif", or "unknown".
	Format string `json:"format"`

	// ColorMode is the decoded color mode: "RGB", "RGBA", "L" or "P".
	ColorMode string `json:"color_mode"`

	// HasAlpha indicates whether the decoded image carries transparency,
	// either as an alpha channel or as translucent palette entries.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := img.Mode.HasAlpha()
	if img.Mode == ModePalette {
		hasAlpha = paletteHasAlpha(img.Palette)
	}

	return &ImageInfo{
		Width:         img.Width,
		Height:        img.Height,
		Format:        format,
		ColorMode:     img.Mode.String(),
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image loaded through cache.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: img.Width, Height: img.Height}, nil
}
