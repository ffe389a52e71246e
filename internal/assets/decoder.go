// Package assets turns source locators into decoded pixels: home-directory
// expansion, file decoding, an in-memory cache shared by one render pass and
// git-hosted asset packs.
package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// RawImage is a decoded image as tightly packed premultiplied RGBA8
// (row-major, top-left origin, stride 4*Width).
type RawImage struct {
	Width  int
	Height int
	Pix    []byte
}

// Size returns the image dimensions.
func (r RawImage) Size() image.Point {
	return image.Pt(r.Width, r.Height)
}

// FileDecoder reads images from the local filesystem. PNG, JPEG, GIF, BMP,
// TIFF and WebP are recognised.
type FileDecoder struct{}

// Decode opens and decodes the image at path.
func (FileDecoder) Decode(path string) (RawImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawImage{}, rkerrors.NewAssetError(path, rkerrors.KindAssetUnavailable, fmt.Errorf("open: %w", err))
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return RawImage{}, rkerrors.NewAssetError(path, rkerrors.KindDecodeFailure, fmt.Errorf("decode: %w", err))
	}

	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return RawImage{}, rkerrors.NewAssetError(path, rkerrors.KindDecodeFailure, fmt.Errorf("decoded %s has degenerate size %dx%d", format, size.X, size.Y))
	}

	return FromImage(img), nil
}

// FromImage converts any image into a RawImage.
func FromImage(img image.Image) RawImage {
	rgba := toRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()

	// Repack in tight rows (stride == 4*w).
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		copy(out[y*w*4:(y+1)*w*4], row)
	}
	return RawImage{Width: w, Height: h, Pix: out}
}

func toRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
