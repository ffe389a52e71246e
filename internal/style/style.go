// Package style holds the layout value types shared by the resolver and the
// paint traversal: the declared RawStyle a node produces from its own data,
// and the Resolved box it occupies once merged with the space its parent
// offers.
//
// All lengths are pixels. Min*, Width and Height describe the content box;
// padding is added on top, so a Resolved Width/Height is the outer box.
package style

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidGeometry is wrapped by every resolution failure in this package.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Axis specifies the direction a container accumulates its children.
type Axis int

const (
	Row Axis = iota
	Column
)

func (a Axis) String() string {
	switch a {
	case Row:
		return "row"
	case Column:
		return "column"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis converts "row" or "column" into an Axis. An empty string is Row.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row":
		return Row, nil
	case "column":
		return Column, nil
	default:
		return Row, fmt.Errorf("unknown axis %q", s)
	}
}

// Point is an absolute position on the surface.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by dx, dy.
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Padding is a four-sided inset around a node's content box.
// Uses CSS box model ordering: Top, Right, Bottom, Left.
type Padding struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Uniform creates padding with the same value on all sides.
func Uniform(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// Symmetric creates padding with separate vertical and horizontal values.
func Symmetric(vertical, horizontal float64) Padding {
	return Padding{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Sides creates padding with explicit values (top, right, bottom, left).
func Sides(top, right, bottom, left float64) Padding {
	return Padding{Top: top, Right: right, Bottom: bottom, Left: left}
}

// IsZero reports whether all sides are zero.
func (p Padding) IsZero() bool {
	return p.Top == 0 && p.Right == 0 && p.Bottom == 0 && p.Left == 0
}

// Horizontal returns left + right.
func (p Padding) Horizontal() float64 {
	return p.Left + p.Right
}

// Vertical returns top + bottom.
func (p Padding) Vertical() float64 {
	return p.Top + p.Bottom
}

// Validate rejects negative or non-finite sides.
func (p Padding) Validate() error {
	sides := [...]struct {
		name  string
		value float64
	}{{"top", p.Top}, {"right", p.Right}, {"bottom", p.Bottom}, {"left", p.Left}}
	for _, side := range sides {
		if err := checkLength("padding "+side.name, side.value); err != nil {
			return err
		}
	}
	return nil
}

// RawStyle is what a node declares about itself, independent of the tree.
type RawStyle struct {
	MinWidth  float64
	MinHeight float64
	Padding   Padding
	Align     Axis
	// Width and Height, when set, replace the content-derived size.
	Width  *float64
	Height *float64
	// Stretch makes a node without an explicit width fill the offered width.
	Stretch bool
}

// Validate rejects declarations that can never resolve to a finite, non-negative box.
func (r RawStyle) Validate() error {
	if err := checkLength("min width", r.MinWidth); err != nil {
		return err
	}
	if err := checkLength("min height", r.MinHeight); err != nil {
		return err
	}
	if r.Width != nil {
		if err := checkLength("width", *r.Width); err != nil {
			return err
		}
	}
	if r.Height != nil {
		if err := checkLength("height", *r.Height); err != nil {
			return err
		}
	}
	if r.Align != Row && r.Align != Column {
		return fmt.Errorf("%w: unknown alignment %s", ErrInvalidGeometry, r.Align)
	}
	return r.Padding.Validate()
}

// ContentWidth is the width a leaf occupies from its own declaration.
func (r RawStyle) ContentWidth() float64 {
	w := 0.0
	if r.Width != nil {
		w = *r.Width
	}
	return math.Max(r.MinWidth, w)
}

// Inner returns the space left for children once padding is removed from the
// offer. An explicit width or height replaces the offered one. Never negative.
func (r RawStyle) Inner(offer Size) Size {
	w := offer.Width - r.Padding.Horizontal()
	if r.Width != nil {
		w = *r.Width
	}
	h := offer.Height - r.Padding.Vertical()
	if r.Height != nil {
		h = *r.Height
	}
	return Size{Width: math.Max(0, w), Height: math.Max(0, h)}
}

// Resolved is the concrete outer box a node occupies for one render pass.
type Resolved struct {
	Width   float64
	Height  float64
	Padding Padding
	Align   Axis
}

// ContentWidth returns the width inside the padding.
func (r Resolved) ContentWidth() float64 {
	return math.Max(0, r.Width-r.Padding.Horizontal())
}

// ContentHeight returns the height inside the padding.
func (r Resolved) ContentHeight() float64 {
	return math.Max(0, r.Height-r.Padding.Vertical())
}

// Extent returns the box length along axis.
func (r Resolved) Extent(axis Axis) float64 {
	if axis == Column {
		return r.Height
	}
	return r.Width
}

// Cross returns the box length across axis.
func (r Resolved) Cross(axis Axis) float64 {
	if axis == Column {
		return r.Width
	}
	return r.Height
}

// Content sums children along axis and takes their max across it.
func Content(axis Axis, children []Resolved) Size {
	var main, cross float64
	for _, child := range children {
		main += child.Extent(axis)
		cross = math.Max(cross, child.Cross(axis))
	}
	if axis == Column {
		return Size{Width: cross, Height: main}
	}
	return Size{Width: main, Height: cross}
}

// Resolve merges raw with the offered space and the measured content size.
//
// Width is max(MinWidth, Width ?? (Stretch ? max(content, offered inner) : content))
// and height is max(MinHeight, Height ?? content); padding is then added.
func Resolve(raw RawStyle, offer Size, content Size) (Resolved, error) {
	if err := raw.Validate(); err != nil {
		return Resolved{}, err
	}

	w := content.Width
	switch {
	case raw.Width != nil:
		w = *raw.Width
	case raw.Stretch:
		w = math.Max(w, offer.Width-raw.Padding.Horizontal())
	}
	w = math.Max(raw.MinWidth, w)

	h := content.Height
	if raw.Height != nil {
		h = *raw.Height
	}
	h = math.Max(raw.MinHeight, h)

	out := Resolved{
		Width:   w + raw.Padding.Horizontal(),
		Height:  h + raw.Padding.Vertical(),
		Padding: raw.Padding,
		Align:   raw.Align,
	}
	if err := checkLength("resolved width", out.Width); err != nil {
		return Resolved{}, err
	}
	if err := checkLength("resolved height", out.Height); err != nil {
		return Resolved{}, err
	}
	return out, nil
}

// Scale returns the factor that maps an intrinsic length onto target.
// Both the factor and the intrinsic length must be finite and positive.
func Scale(intrinsic, target float64) (float64, error) {
	if intrinsic <= 0 || math.IsNaN(intrinsic) || math.IsInf(intrinsic, 0) {
		return 0, fmt.Errorf("%w: intrinsic length %v", ErrInvalidGeometry, intrinsic)
	}
	s := target / intrinsic
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("%w: scale %v (target %v / intrinsic %v)", ErrInvalidGeometry, s, target, intrinsic)
	}
	return s, nil
}

// AspectHeight derives the height that keeps intrinsic's aspect ratio at width.
func AspectHeight(intrinsic Size, width float64) (float64, error) {
	s, err := Scale(intrinsic.Width, width)
	if err != nil {
		return 0, err
	}
	h := intrinsic.Height * s
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("%w: scaled height %v", ErrInvalidGeometry, h)
	}
	return h, nil
}

func checkLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidGeometry, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidGeometry, name, v)
	}
	return nil
}
