package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/alexisbeaulieu97/rasterkit/internal/raster"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// Cursor is the running absolute position handed to a node, together with
// the box of the parent that placed it.
type Cursor struct {
	X      float64
	Y      float64
	Depth  int
	Parent style.Resolved
}

// walk visits b and then its children in declared order. Each child starts at
// the parent's padded origin, advanced along the parent's axis by the extents
// of the siblings before it.
func walk(b *Box, cur Cursor, visit func(*Box, Cursor) error) error {
	if err := visit(b, cur); err != nil {
		return err
	}

	s := b.Style
	var advance float64
	for _, child := range b.Children {
		next := Cursor{
			X:      cur.X + s.Padding.Left,
			Y:      cur.Y + s.Padding.Top,
			Depth:  cur.Depth + 1,
			Parent: s,
		}
		if s.Align == style.Column {
			next.Y += advance
		} else {
			next.X += advance
		}
		if err := walk(child, next, visit); err != nil {
			return err
		}
		advance += child.Style.Extent(s.Align)
	}
	return nil
}

// Placement is the absolute box of one node.
type Placement struct {
	Path   string
	Node   Component
	Depth  int
	Origin style.Point
	Style  style.Resolved
}

// Arrange returns the absolute placement of every node in paint order.
func Arrange(root *Box) []Placement {
	var out []Placement
	_ = walk(root, Cursor{}, func(b *Box, cur Cursor) error {
		out = append(out, Placement{
			Path:   b.Path,
			Node:   b.Node,
			Depth:  cur.Depth,
			Origin: style.Point{X: cur.X, Y: cur.Y},
			Style:  b.Style,
		})
		return nil
	})
	return out
}

// Option customises a render pass.
type Option func(*options)

type options struct {
	background color.Color
}

// WithBackground fills the surface with c before anything is painted.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// Render lays out the tree against a surface of the given size and paints it.
// It returns either a fully painted surface or the first error.
func Render(root Component, size image.Point, rc *Context, opts ...Option) (*raster.Surface, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, rkerrors.NewRenderError("root", rkerrors.KindInvalidGeometry, fmt.Errorf("surface size %dx%d", size.X, size.Y))
	}

	box, err := Layout(root, style.Size{Width: float64(size.X), Height: float64(size.Y)}, rc)
	if err != nil {
		return nil, err
	}
	return Paint(box, size, rc, opts...)
}

// Paint composites an already resolved tree onto a new surface.
func Paint(root *Box, size image.Point, rc *Context, opts ...Option) (*raster.Surface, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	surface := raster.New(size)
	if o.background != nil {
		surface.Fill(o.background)
	}

	frame := style.Resolved{Width: float64(size.X), Height: float64(size.Y)}
	err := walk(root, Cursor{Parent: frame}, func(b *Box, cur Cursor) error {
		pc := &PaintContext{
			Surface:   surface,
			Resources: rc,
			Origin:    style.Point{X: cur.X, Y: cur.Y},
			Self:      b.Style,
			Parent:    cur.Parent,
			Asset:     b.Asset,
		}
		if err := b.Node.Paint(pc); err != nil {
			return nodeError(b.Path, rkerrors.KindCompositionFailure, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return surface, nil
}
