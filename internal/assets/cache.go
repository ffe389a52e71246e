package assets

import "sync"

// Cache holds decoded images keyed by resolved path. It is safe for
// concurrent use so prefetch workers can fill it in parallel.
type Cache struct {
	mu     sync.RWMutex
	images map[string]RawImage
	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]RawImage)}
}

// Get retrieves a decoded image.
func (c *Cache) Get(path string) (RawImage, bool) {
	if c == nil {
		return RawImage{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.images[path]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// Put stores a decoded image.
func (c *Cache) Put(path string, img RawImage) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.images[path] = img
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.images)
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.hits, c.misses
}
