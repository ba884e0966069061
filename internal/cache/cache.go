package cache

import (
	"image"
	"sync"
)

// Loader decodes the texture stored under name.
type Loader func(name string) (image.Image, error)

// TextureCache decodes each texture once and hands out the same image on
// every later call. Failures are cached as well so a missing asset is only
// reported once.
type TextureCache struct {
	mu       sync.Mutex
	load     Loader
	textures map[string]image.Image
	failed   map[string]error
}

func NewTextureCache(load Loader) *TextureCache {
	return &TextureCache{
		load:     load,
		textures: make(map[string]image.Image),
		failed:   make(map[string]error),
	}
}

// Get returns the decoded texture. The bool reports whether this call did
// the decoding.
func (c *TextureCache) Get(name string) (image.Image, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.textures[name]; ok {
		return img, false, nil
	}
	if err, ok := c.failed[name]; ok {
		return nil, false, err
	}

	img, err := c.load(name)
	if err != nil {
		c.failed[name] = err
		return nil, true, err
	}
	c.textures[name] = img
	return img, true, nil
}

// Len returns the number of successfully decoded textures.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

// Reset forgets everything, including failures.
func (c *TextureCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textures = make(map[string]image.Image)
	c.failed = make(map[string]error)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
