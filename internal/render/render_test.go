package render_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/rasterkit/internal/assets"
	"github.com/alexisbeaulieu97/rasterkit/internal/components"
	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// stubDecoder serves images from memory and counts decode calls.
type stubDecoder struct {
	images map[string]assets.RawImage
	calls  atomic.Int64
}

func (d *stubDecoder) Decode(path string) (assets.RawImage, error) {
	d.calls.Add(1)
	img, ok := d.images[path]
	if !ok {
		return assets.RawImage{}, rkerrors.NewAssetError(path, rkerrors.KindAssetUnavailable, os.ErrNotExist)
	}
	return img, nil
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

func stubContext(images map[string]assets.RawImage) (*render.Context, *stubDecoder) {
	d := &stubDecoder{images: images}
	return &render.Context{Decoder: d, Cache: assets.NewCache()}, d
}

func requireKind(t *testing.T, err error, kind rkerrors.Kind) *rkerrors.RenderError {
	t.Helper()

	require.Error(t, err)
	var renderErr *rkerrors.RenderError
	require.ErrorAs(t, err, &renderErr)
	require.Equal(t, kind, renderErr.Kind, "error: %v", err)
	return renderErr
}

func originOf(t *testing.T, placements []render.Placement, path string) style.Point {
	t.Helper()

	for _, p := range placements {
		if p.Path == path {
			return p.Origin
		}
	}
	require.FailNow(t, "no placement", "path %s", path)
	return style.Point{}
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestRowChildrenStartAtPrefixSums(t *testing.T) {
	t.Parallel()

	rc, _ := stubContext(map[string]assets.RawImage{
		"a.png": solid(10, 10, red),
		"b.png": solid(20, 10, red),
		"c.png": solid(5, 5, red),
	})
	root := components.Row(
		components.NewImage("a.png", 30),
		components.NewImage("b.png", 50),
		components.NewImage("c.png", 20),
	)

	box, err := render.Layout(root, style.Size{Width: 500, Height: 500}, rc)
	require.NoError(t, err)
	require.InDelta(t, 100, box.Style.Width, 1e-9)

	placements := render.Arrange(box)
	require.Len(t, placements, 4)
	require.InDelta(t, 0, originOf(t, placements, "root/0").X, 1e-9)
	require.InDelta(t, 30, originOf(t, placements, "root/1").X, 1e-9)
	require.InDelta(t, 80, originOf(t, placements, "root/2").X, 1e-9)
	for _, p := range placements {
		require.InDelta(t, 0, p.Origin.Y, 1e-9)
	}
}

func TestPaddedRowPlacesLeavesInsidePadding(t *testing.T) {
	t.Parallel()

	rc, _ := stubContext(map[string]assets.RawImage{
		"wide.png":   solid(200, 100, red),
		"square.png": solid(50, 50, blue),
	})
	root := components.Row(
		components.NewImage("wide.png", 80),
		components.NewImage("square.png", 40),
	).WithPadding(style.Uniform(10))

	box, err := render.Layout(root, style.Size{Width: 200, Height: 100}, rc)
	require.NoError(t, err)
	require.InDelta(t, 140, box.Style.Width, 1e-9)
	require.InDelta(t, 60, box.Style.Height, 1e-9)

	placements := render.Arrange(box)
	require.Equal(t, style.Point{X: 10, Y: 10}, originOf(t, placements, "root/0"))
	require.Equal(t, style.Point{X: 90, Y: 10}, originOf(t, placements, "root/1"))

	surface, err := render.Paint(box, image.Pt(200, 100), rc)
	require.NoError(t, err)
	img := surface.Image()
	require.Equal(t, red, img.RGBAAt(50, 30))
	require.Equal(t, blue, img.RGBAAt(110, 30))
	// padding and the area right of the container stay transparent
	require.Equal(t, color.RGBA{}, img.RGBAAt(5, 5))
	require.Equal(t, color.RGBA{}, img.RGBAAt(150, 30))
}

func TestColumnAdvancesVertically(t *testing.T) {
	t.Parallel()

	root := components.Column(
		components.NewSpacer(20, 10),
		components.NewSpacer(30, 15),
	).WithPadding(style.Uniform(5))

	box, err := render.Layout(root, style.Size{Width: 100, Height: 100}, nil)
	require.NoError(t, err)
	require.InDelta(t, 40, box.Style.Width, 1e-9)
	require.InDelta(t, 35, box.Style.Height, 1e-9)

	placements := render.Arrange(box)
	require.Equal(t, style.Point{X: 5, Y: 5}, originOf(t, placements, "root/0"))
	require.Equal(t, style.Point{X: 5, Y: 15}, originOf(t, placements, "root/1"))
	require.Equal(t, 1, placements[1].Depth)
}

func TestNestedContainersAccumulateOrigins(t *testing.T) {
	t.Parallel()

	inner := components.Row(components.NewSpacer(10, 10), components.NewSpacer(10, 10)).
		WithPadding(style.Uniform(2))
	root := components.Column(components.NewSpacer(50, 20), inner).
		WithPadding(style.Sides(1, 0, 0, 3))

	box, err := render.Layout(root, style.Size{Width: 100, Height: 100}, nil)
	require.NoError(t, err)

	placements := render.Arrange(box)
	require.Equal(t, style.Point{X: 3, Y: 21}, originOf(t, placements, "root/1"))
	require.Equal(t, style.Point{X: 5, Y: 23}, originOf(t, placements, "root/1/0"))
	require.Equal(t, style.Point{X: 15, Y: 23}, originOf(t, placements, "root/1/1"))
}

func TestMissingAssetFailsWithoutSurface(t *testing.T) {
	t.Parallel()

	root := components.NewImage("/none.png", 100)

	surface, err := render.Render(root, image.Pt(200, 200), render.NewContext(t.TempDir()))
	require.Nil(t, surface)
	renderErr := requireKind(t, err, rkerrors.KindAssetUnavailable)
	require.Equal(t, "root", renderErr.Node)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestZeroIntrinsicWidthIsInvalidGeometry(t *testing.T) {
	t.Parallel()

	rc, _ := stubContext(map[string]assets.RawImage{
		"empty.png": {Width: 0, Height: 10},
	})
	root := components.Row(components.NewImage("empty.png", 0))

	surface, err := render.Render(root, image.Pt(50, 50), rc)
	require.Nil(t, surface)
	renderErr := requireKind(t, err, rkerrors.KindInvalidGeometry)
	require.Equal(t, "root/0", renderErr.Node)
	require.ErrorIs(t, err, style.ErrInvalidGeometry)
}

func TestRejectedBufferIsCompositionFailure(t *testing.T) {
	t.Parallel()

	rc, _ := stubContext(map[string]assets.RawImage{
		"short.png": {Width: 2, Height: 2, Pix: make([]byte, 3)},
	})
	root := components.Row(components.NewImage("short.png", 20).WithID("broken"))

	surface, err := render.Render(root, image.Pt(50, 50), rc)
	require.Nil(t, surface)
	renderErr := requireKind(t, err, rkerrors.KindCompositionFailure)
	require.Equal(t, "root/0#broken", renderErr.Node)
}

func TestNegativePaddingIsInvalidGeometry(t *testing.T) {
	t.Parallel()

	root := components.Row(components.NewSpacer(10, 10)).WithPadding(style.Uniform(-1))

	_, err := render.Layout(root, style.Size{Width: 10, Height: 10}, nil)
	requireKind(t, err, rkerrors.KindInvalidGeometry)
}

func TestRenderRejectsEmptySurfaceAndTree(t *testing.T) {
	t.Parallel()

	_, err := render.Render(components.NewSpacer(1, 1), image.Pt(0, 10), nil)
	requireKind(t, err, rkerrors.KindInvalidGeometry)

	_, err = render.Render(nil, image.Pt(10, 10), nil)
	requireKind(t, err, rkerrors.KindInvalidGeometry)
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	rc, _ := stubContext(map[string]assets.RawImage{
		"a.png": solid(7, 3, red),
		"b.png": solid(3, 9, color.NRGBA{G: 200, A: 128}),
	})
	root := components.Column(
		components.NewImage("a.png", 33).WithPadding(style.Uniform(3)),
		components.Row(
			components.NewImage("b.png", 17),
			components.NewImage("a.png", 41),
		).WithBackground(color.Gray{Y: 40}),
	).WithPadding(style.Symmetric(4, 6))

	first, err := render.Render(root, image.Pt(120, 90), rc, render.WithBackground(color.White))
	require.NoError(t, err)
	second, err := render.Render(root, image.Pt(120, 90), rc, render.WithBackground(color.White))
	require.NoError(t, err)
	require.Equal(t, first.Image().Pix, second.Image().Pix)
}

func TestImageHeightPreservesAspectRatio(t *testing.T) {
	t.Parallel()

	cases := []struct {
		w, h  int
		width float64
	}{
		{200, 100, 80},
		{50, 50, 40},
		{3, 7, 100},
		{640, 480, 1},
		{1, 1000, 12.5},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%dx%d@%v", tc.w, tc.h, tc.width), func(t *testing.T) {
			rc, _ := stubContext(map[string]assets.RawImage{"img.png": solid(tc.w, tc.h, red)})

			box, err := render.Layout(components.NewImage("img.png", tc.width), style.Size{Width: 1000, Height: 1000}, rc)
			require.NoError(t, err)
			require.InDelta(t, tc.width, box.Style.Width, 1e-9)
			require.InDelta(t, float64(tc.h)*tc.width/float64(tc.w), box.Style.Height, 1e-9)
		})
	}
}

func TestPrefetchDecodesEachAssetOnce(t *testing.T) {
	t.Parallel()

	rc, decoder := stubContext(map[string]assets.RawImage{
		"a.png": solid(4, 4, red),
		"b.png": solid(4, 4, blue),
	})
	root := components.Row(
		components.NewImage("a.png", 8),
		components.Column(components.NewImage("b.png", 8), components.NewImage("a.png", 8)),
		components.NewImage("b.png", 8),
	)

	require.Equal(t, []string{"a.png", "b.png"}, render.Assets(root, rc))
	require.NoError(t, render.Prefetch(context.Background(), root, rc, 2))
	require.Equal(t, 2, rc.Cache.Len())
	require.EqualValues(t, 2, decoder.calls.Load())

	_, err := render.Render(root, image.Pt(64, 64), rc)
	require.NoError(t, err)
	require.EqualValues(t, 2, decoder.calls.Load())
}

func TestPrefetchReportsMissingAsset(t *testing.T) {
	t.Parallel()

	rc, _ := stubContext(map[string]assets.RawImage{"a.png": solid(4, 4, red)})
	root := components.Row(components.NewImage("a.png", 8), components.NewImage("gone.png", 8))

	err := render.Prefetch(context.Background(), root, rc, 4)
	renderErr := requireKind(t, err, rkerrors.KindAssetUnavailable)
	require.Equal(t, "root/1", renderErr.Node)
}

func TestPrefetchWithoutCacheIsNoop(t *testing.T) {
	t.Parallel()

	d := &stubDecoder{}
	rc := &render.Context{Decoder: d}
	root := components.NewImage("gone.png", 8)

	require.NoError(t, render.Prefetch(context.Background(), root, rc, 1))
	require.Zero(t, d.calls.Load())
}

func TestPaintSeesParentGeometry(t *testing.T) {
	t.Parallel()

	probe := &parentProbe{}
	root := components.Row(components.NewSpacer(10, 5), probe).WithPadding(style.Uniform(1))

	_, err := render.Render(root, image.Pt(40, 40), nil)
	require.NoError(t, err)
	require.InDelta(t, 22, probe.parent.Width, 1e-9)
	require.Equal(t, style.Point{X: 11, Y: 1}, probe.origin)
}

type parentProbe struct {
	parent style.Resolved
	origin style.Point
}

func (p *parentProbe) Style() style.RawStyle {
	w, h := 10.0, 10.0
	return style.RawStyle{Width: &w, Height: &h}
}

func (p *parentProbe) Children() []render.Component { return nil }

func (p *parentProbe) Paint(pc *render.PaintContext) error {
	p.parent = pc.Parent
	p.origin = pc.Origin
	return nil
}

func TestFailFromPaintIsAttributed(t *testing.T) {
	t.Parallel()

	root := components.Row(failing{})

	_, err := render.Render(root, image.Pt(10, 10), nil)
	renderErr := requireKind(t, err, rkerrors.KindDecodeFailure)
	require.Equal(t, "root/0", renderErr.Node)
}

type failing struct{}

func (failing) Style() style.RawStyle { return style.RawStyle{} }

func (failing) Children() []render.Component { return nil }

func (failing) Paint(*render.PaintContext) error {
	return render.Failf(rkerrors.KindDecodeFailure, "bad bytes")
}

// shiftingDecoder returns a 2x2 image on the first call and 2x4 afterwards,
// like a file replaced between two reads.
type shiftingDecoder struct {
	calls atomic.Int64
}

func (d *shiftingDecoder) Decode(string) (assets.RawImage, error) {
	if d.calls.Add(1) == 1 {
		return solid(2, 2, red), nil
	}
	return solid(2, 4, red), nil
}

func TestUncachedPassDecodesEachImageOnce(t *testing.T) {
	t.Parallel()

	d := &shiftingDecoder{}
	rc := &render.Context{Decoder: d}
	root := components.Column(components.NewImage("a.png", 10), components.NewSpacer(10, 10))

	surface, err := render.Render(root, image.Pt(20, 30), rc)
	require.NoError(t, err)
	require.EqualValues(t, 1, d.calls.Load())

	img := surface.Image()
	require.Equal(t, red, img.RGBAAt(5, 5))
	require.Equal(t, color.RGBA{}, img.RGBAAt(5, 15))
}

func TestTypedNilChildIsInvalidGeometry(t *testing.T) {
	t.Parallel()

	rc, _ := stubContext(nil)
	root := components.Row(components.NewSpacer(4, 4), (*components.Image)(nil))

	require.NoError(t, render.Prefetch(context.Background(), root, rc, 2))

	_, err := render.Render(root, image.Pt(10, 10), rc)
	renderErr := requireKind(t, err, rkerrors.KindInvalidGeometry)
	require.Equal(t, "root/1", renderErr.Node)

	_, err = render.Layout((*components.Container)(nil), style.Size{Width: 10, Height: 10}, rc)
	requireKind(t, err, rkerrors.KindInvalidGeometry)
}
