package components

import (
	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// DefaultImagePadding is the inset the generator historically put around images.
const DefaultImagePadding = 10.0

// Image is a leaf that composites an external image scaled to Width.
type Image struct {
	ID string
	// Path is the source locator; it may start with "~/".
	Path  string
	Width float64
	// Height, when set, stretches the image vertically instead of keeping
	// its aspect ratio.
	Height  *float64
	Padding style.Padding
}

var (
	_ render.Component = (*Image)(nil)
	_ render.Measurer  = (*Image)(nil)
	_ render.Sourced   = (*Image)(nil)
)

// NewImage creates an image node with no padding.
func NewImage(path string, width float64) *Image {
	return &Image{Path: path, Width: width}
}

// WithPadding sets the padding.
func (i *Image) WithPadding(p style.Padding) *Image {
	i.Padding = p
	return i
}

// WithHeight overrides the aspect-derived height.
func (i *Image) WithHeight(h float64) *Image {
	i.Height = &h
	return i
}

// WithID sets the identifier used in error paths.
func (i *Image) WithID(id string) *Image {
	i.ID = id
	return i
}

// Style reports Width as the minimum content width, laid out as a row.
func (i *Image) Style() style.RawStyle {
	return style.RawStyle{
		MinWidth: i.Width,
		Padding:  i.Padding,
		Align:    style.Row,
		Height:   i.Height,
	}
}

// Children returns nil; images are leaves.
func (i *Image) Children() []render.Component {
	return nil
}

// Name returns the image's ID.
func (i *Image) Name() string {
	return i.ID
}

// Source returns the locator of the image file.
func (i *Image) Source() string {
	return i.Path
}

// Measure decodes the image and returns the height that keeps its aspect
// ratio at width, together with the decoded pixels.
func (i *Image) Measure(rc *render.Context, width float64) (render.Measurement, error) {
	img, err := rc.Load(i.Path)
	if err != nil {
		return render.Measurement{}, err
	}
	intrinsic := style.Size{Width: float64(img.Width), Height: float64(img.Height)}
	h, err := style.AspectHeight(intrinsic, width)
	if err != nil {
		return render.Measurement{}, err
	}
	return render.Measurement{Height: h, Asset: &img}, nil
}

// Paint scales the pixels decoded during layout to the content box and blits
// them at the padded origin. It never decodes on its own.
func (i *Image) Paint(pc *render.PaintContext) error {
	img := pc.Asset
	if img == nil {
		return render.Failf(rkerrors.KindCompositionFailure, "image %s was not measured before paint", i.Path)
	}

	sx, err := style.Scale(float64(img.Width), pc.Self.ContentWidth())
	if err != nil {
		return err
	}
	sy := sx
	if i.Height != nil {
		sy, err = style.Scale(float64(img.Height), pc.Self.ContentHeight())
		if err != nil {
			return err
		}
	}

	at := pc.ContentOrigin()
	return pc.Surface.Blit(at.X, at.Y, img.Pix, img.Size(), sx, sy)
}
