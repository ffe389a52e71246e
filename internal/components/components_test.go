package components

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/rasterkit/internal/assets"
	"github.com/alexisbeaulieu97/rasterkit/internal/raster"
	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

type memDecoder map[string]assets.RawImage

func (m memDecoder) Decode(path string) (assets.RawImage, error) {
	return m[path], nil
}

func solid(w, h int, c color.Color) assets.RawImage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return assets.FromImage(img)
}

func TestImageStyleUsesWidthAsMinimum(t *testing.T) {
	img := NewImage("logo.png", 120).WithPadding(style.Uniform(DefaultImagePadding))

	raw := img.Style()
	require.Equal(t, 120.0, raw.MinWidth)
	require.Equal(t, style.Row, raw.Align)
	require.Equal(t, style.Uniform(10), raw.Padding)
	require.Nil(t, raw.Height)
	require.Nil(t, img.Children())
	require.Equal(t, "logo.png", img.Source())
}

func TestImageMeasureKeepsAspect(t *testing.T) {
	rc := &render.Context{Decoder: memDecoder{"a.png": solid(200, 100, color.Black)}}

	ms, err := NewImage("a.png", 80).Measure(rc, 80)
	require.NoError(t, err)
	require.InDelta(t, 40, ms.Height, 1e-9)
	require.NotNil(t, ms.Asset)
	require.Equal(t, 200, ms.Asset.Width)
}

func TestImageMeasureRejectsZeroWidth(t *testing.T) {
	rc := &render.Context{Decoder: memDecoder{"a.png": {Width: 0, Height: 4}}}

	_, err := NewImage("a.png", 10).Measure(rc, 10)
	require.ErrorIs(t, err, style.ErrInvalidGeometry)
}

func TestImagePaintsAtPaddedOrigin(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	asset := solid(2, 2, red)
	surface := raster.New(image.Pt(40, 40))

	pc := &render.PaintContext{
		Surface: surface,
		Asset:   &asset,
		Origin:  style.Point{X: 10, Y: 5},
		Self: style.Resolved{
			Width:   14,
			Height:  14,
			Padding: style.Uniform(2),
		},
		Parent: style.Resolved{Width: 40, Height: 40},
	}
	require.NoError(t, NewImage("a.png", 10).Paint(pc))

	img := surface.Image()
	require.Equal(t, red, img.RGBAAt(12, 7))
	require.Equal(t, red, img.RGBAAt(21, 16))
	require.Equal(t, color.RGBA{}, img.RGBAAt(11, 7))
	require.Equal(t, color.RGBA{}, img.RGBAAt(22, 16))
	require.Equal(t, color.RGBA{}, img.RGBAAt(12, 17))
}

func TestImagePaintRequiresMeasuredAsset(t *testing.T) {
	surface := raster.New(image.Pt(8, 8))
	pc := &render.PaintContext{Surface: surface, Self: style.Resolved{Width: 4, Height: 4}}

	err := NewImage("a.png", 4).Paint(pc)
	require.Equal(t, rkerrors.KindCompositionFailure, rkerrors.KindOf(err))
}

func TestImageExplicitHeightStretches(t *testing.T) {
	green := color.RGBA{G: 255, A: 255}
	rc := &render.Context{Decoder: memDecoder{"a.png": solid(4, 4, green)}}
	node := NewImage("a.png", 8).WithHeight(20)

	surface, err := render.Render(node, image.Pt(30, 30), rc)
	require.NoError(t, err)

	img := surface.Image()
	require.Equal(t, green, img.RGBAAt(4, 18))
	require.Equal(t, color.RGBA{}, img.RGBAAt(4, 21))
	require.Equal(t, color.RGBA{}, img.RGBAAt(9, 4))
}

func TestContainerPaintsBackgroundBeforeChildren(t *testing.T) {
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	fg := color.RGBA{R: 200, A: 255}
	rc := &render.Context{Decoder: memDecoder{"fg.png": solid(1, 1, fg)}}

	root := Row(NewImage("fg.png", 4), NewSpacer(6, 4)).
		WithPadding(style.Uniform(3)).
		WithBackground(bg)

	surface, err := render.Render(root, image.Pt(32, 32), rc)
	require.NoError(t, err)

	img := surface.Image()
	require.Equal(t, bg, img.RGBAAt(0, 0))
	require.Equal(t, bg, img.RGBAAt(15, 9))
	require.Equal(t, fg, img.RGBAAt(4, 4))
	require.Equal(t, bg, img.RGBAAt(8, 4))
	require.Equal(t, color.RGBA{}, img.RGBAAt(16, 4))
	require.Equal(t, color.RGBA{}, img.RGBAAt(4, 10))
}

func TestContainerWithoutBackgroundPaintsNothing(t *testing.T) {
	surface := raster.New(image.Pt(4, 4))
	pc := &render.PaintContext{Surface: surface, Self: style.Resolved{Width: 4, Height: 4}}

	require.NoError(t, Column().Paint(pc))
	for _, v := range surface.Image().Pix {
		require.Zero(t, v)
	}
}

func TestContainerBuilders(t *testing.T) {
	a, b := NewSpacer(1, 1), NewSpacer(2, 2)
	c := NewContainer(style.Column, a).Add(b).WithID("stack")

	require.Equal(t, "stack", c.Name())
	require.Equal(t, []render.Component{a, b}, c.Children())

	raw := c.Style()
	require.Equal(t, style.Column, raw.Align)
	require.False(t, raw.Stretch)
}

func TestSpacerHasFixedBox(t *testing.T) {
	box, err := render.Layout(NewSpacer(12, 7), style.Size{Width: 100, Height: 100}, nil)
	require.NoError(t, err)
	require.Equal(t, style.Resolved{Width: 12, Height: 7}, box.Style)
}

func TestStretchFillsOffer(t *testing.T) {
	c := Row(NewSpacer(10, 10)).WithPadding(style.Uniform(5))
	c.Stretch = true

	box, err := render.Layout(c, style.Size{Width: 100, Height: 50}, nil)
	require.NoError(t, err)
	require.InDelta(t, 100, box.Style.Width, 1e-9)
	require.InDelta(t, 20, box.Style.Height, 1e-9)
}
