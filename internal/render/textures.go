// Package render rasterizes a scene snapshot into an RGBA framebuffer.
package render

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/OCAP2/globe/internal/cache"
)

// Textures loads image assets from a directory, once each.
type Textures struct {
	dir    string
	cache  *cache.TextureCache
	logger *slog.Logger
}

func NewTextures(dir string, logger *slog.Logger) *Textures {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Textures{dir: dir, logger: logger}
	t.cache = cache.NewTextureCache(t.decode)
	return t
}

func (t *Textures) decode(name string) (image.Image, error) {
	f, err := os.Open(filepath.Join(t.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", name, err)
	}
	return toRGBA(img), nil
}

// Get returns the texture, or nil if it cannot be loaded. The first failure
// for a name is logged as a warning.
func (t *Textures) Get(name string) *image.RGBA {
	if name == "" {
		return nil
	}
	img, first, err := t.cache.Get(name)
	if err != nil {
		if first {
			t.logger.Warn("Texture unavailable, using flat color", "texture", name, "error", err)
		}
		return nil
	}
	if first {
		b := img.Bounds()
		t.logger.Debug("Texture loaded", "texture", name, "width", b.Dx(), "height", b.Dy())
	}
	return img.(*image.RGBA)
}

// Preload decodes the named textures ahead of the first frame.
func (t *Textures) Preload(names ...string) {
	for _, n := range names {
		t.Get(n)
	}
}

// Loaded returns how many textures decoded successfully.
func (t *Textures) Loaded() int {
	return t.cache.Len()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
