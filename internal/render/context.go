package render

import (
	"github.com/alexisbeaulieu97/rasterkit/internal/assets"
)

// PathResolver maps a source locator to a concrete path. It must not fail.
type PathResolver interface {
	Expand(locator string) string
}

// Decoder turns a concrete path into pixels.
type Decoder interface {
	Decode(path string) (assets.RawImage, error)
}

// Context carries the read-only resources of one render pass. It is built
// before the pass and never modified during it; Cache synchronises itself.
type Context struct {
	Paths   PathResolver
	Decoder Decoder
	Cache   *assets.Cache
}

// NewContext returns a Context that decodes from the filesystem, resolving
// relative locators against baseDir, with an empty cache.
func NewContext(baseDir string) *Context {
	return &Context{
		Paths:   assets.HomeResolver{BaseDir: baseDir},
		Decoder: assets.FileDecoder{},
		Cache:   assets.NewCache(),
	}
}

// Resolve expands locator through the path resolver.
func (c *Context) Resolve(locator string) string {
	if c == nil || c.Paths == nil {
		return locator
	}
	return c.Paths.Expand(locator)
}

// Load decodes the image behind locator, consulting the cache by resolved
// path first.
func (c *Context) Load(locator string) (assets.RawImage, error) {
	path := c.Resolve(locator)
	if img, ok := c.cache().Get(path); ok {
		return img, nil
	}

	decoder := Decoder(assets.FileDecoder{})
	if c != nil && c.Decoder != nil {
		decoder = c.Decoder
	}
	img, err := decoder.Decode(path)
	if err != nil {
		return assets.RawImage{}, err
	}
	c.cache().Put(path, img)
	return img, nil
}

func (c *Context) cache() *assets.Cache {
	if c == nil {
		return nil
	}
	return c.Cache
}
