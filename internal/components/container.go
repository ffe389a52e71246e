package components

import (
	"image/color"

	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
)

// Container arranges its children along Axis. It has no content of its own
// apart from an optional background.
type Container struct {
	ID        string
	Axis      style.Axis
	Padding   style.Padding
	MinWidth  float64
	MinHeight float64
	Width     *float64
	Height    *float64
	Stretch   bool
	// Background fills the outer box when set; Radius rounds its corners.
	Background color.Color
	Radius     float64
	Items      []render.Component
}

var _ render.Component = (*Container)(nil)

// NewContainer creates a container with the given axis and children.
func NewContainer(axis style.Axis, children ...render.Component) *Container {
	return &Container{Axis: axis, Items: children}
}

// Row creates a container that lays its children out left to right.
func Row(children ...render.Component) *Container {
	return NewContainer(style.Row, children...)
}

// Column creates a container that lays its children out top to bottom.
func Column(children ...render.Component) *Container {
	return NewContainer(style.Column, children...)
}

// WithPadding sets the padding.
func (c *Container) WithPadding(p style.Padding) *Container {
	c.Padding = p
	return c
}

// WithBackground sets the background colour.
func (c *Container) WithBackground(bg color.Color) *Container {
	c.Background = bg
	return c
}

// WithID sets the identifier used in error paths.
func (c *Container) WithID(id string) *Container {
	c.ID = id
	return c
}

// Add appends children.
func (c *Container) Add(children ...render.Component) *Container {
	c.Items = append(c.Items, children...)
	return c
}

// Style returns the container's layout hints; Axis becomes the alignment.
func (c *Container) Style() style.RawStyle {
	return style.RawStyle{
		MinWidth:  c.MinWidth,
		MinHeight: c.MinHeight,
		Padding:   c.Padding,
		Align:     c.Axis,
		Width:     c.Width,
		Height:    c.Height,
		Stretch:   c.Stretch,
	}
}

// Children returns the child nodes in paint order.
func (c *Container) Children() []render.Component {
	return c.Items
}

// Name returns the container's ID.
func (c *Container) Name() string {
	return c.ID
}

// Paint fills the background. Children are painted by the traversal afterwards.
func (c *Container) Paint(pc *render.PaintContext) error {
	if c.Background == nil {
		return nil
	}
	pc.Surface.FillRect(pc.Origin.X, pc.Origin.Y, pc.Self.Width, pc.Self.Height, c.Background, c.Radius)
	return nil
}
