// Package raster owns the pixel buffer a render pass composites into.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var (
	// ErrBufferSize is returned when pixel data does not match its claimed size.
	ErrBufferSize = errors.New("pixel buffer does not match size")
	// ErrTransform is returned for zero, negative or non-finite scale factors.
	ErrTransform = errors.New("invalid transform")
)

// Surface is a premultiplied RGBA canvas.
type Surface struct {
	img *image.RGBA
}

// New allocates a transparent surface of the given size.
func New(size image.Point) *Surface {
	return &Surface{img: image.NewRGBA(image.Rectangle{Max: size})}
}

// Image exposes the underlying buffer.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Size returns the surface dimensions.
func (s *Surface) Size() image.Point {
	return s.img.Bounds().Size()
}

// Fill paints the whole surface with c, replacing what was there.
func (s *Surface) Fill(c color.Color) {
	xdraw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

// FillRect composites a solid rectangle over the surface. A positive radius
// rounds the corners.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color, radius float64) {
	if w <= 0 || h <= 0 {
		return
	}
	dc := gg.NewContextForRGBA(s.img)
	dc.SetColor(c)
	if radius > 0 {
		dc.DrawRoundedRectangle(x, y, w, h, radius)
	} else {
		dc.DrawRectangle(x, y, w, h)
	}
	dc.Fill()
}

// Blit composites tightly packed premultiplied RGBA pixels of the given size
// at (x, y), scaled by sx horizontally and sy vertically.
func (s *Surface) Blit(x, y float64, pix []byte, size image.Point, sx, sy float64) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBufferSize, size.X, size.Y)
	}
	if want := 4 * size.X * size.Y; len(pix) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrBufferSize, len(pix), want, size.X, size.Y)
	}
	for _, v := range [...]float64{sx, sy} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: scale %v", ErrTransform, v)
		}
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: origin (%v, %v)", ErrTransform, x, y)
	}

	src := &image.RGBA{Pix: pix, Stride: 4 * size.X, Rect: image.Rectangle{Max: size}}
	m := f64.Aff3{
		sx, 0, x,
		0, sy, y,
	}
	xdraw.BiLinear.Transform(s.img, m, src, src.Bounds(), xdraw.Over, nil)
	return nil
}

// EncodePNG writes the surface as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// EncodeJPEG writes the surface as JPEG at the given quality (1-100).
func (s *Surface) EncodeJPEG(w io.Writer, quality int) error {
	return jpeg.Encode(w, s.img, &jpeg.Options{Quality: quality})
}
