package render

import (
	"fmt"
	"reflect"

	"github.com/alexisbeaulieu97/rasterkit/internal/assets"
	"github.com/alexisbeaulieu97/rasterkit/internal/raster"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// Component is one node of the tree. Implementations must be immutable for
// the duration of a pass.
type Component interface {
	// Style declares the node's layout hints from its own data.
	Style() style.RawStyle
	// Children returns the ordered child nodes; leaves return nil.
	Children() []Component
	// Paint draws the node's own content. It runs before the children paint.
	Paint(pc *PaintContext) error
}

// Measurer is implemented by leaves with intrinsic content. Measure returns
// the content height that belongs to the given content width.
type Measurer interface {
	Measure(rc *Context, width float64) (Measurement, error)
}

// Measurement is what a Measurer resolved. Asset, when set, is the decoded
// image the height was derived from; it is handed back to the node's Paint
// so a pass decodes each leaf at most once.
type Measurement struct {
	Height float64
	Asset  *assets.RawImage
}

// Sourced is implemented by nodes that paint an external asset, so it can be
// decoded ahead of the pass.
type Sourced interface {
	Source() string
}

// Named is implemented by nodes that carry a user-facing identifier.
type Named interface {
	Name() string
}

// PaintContext is what a node sees while painting itself.
type PaintContext struct {
	Surface   *raster.Surface
	Resources *Context
	// Origin is the absolute top-left corner of the node's outer box.
	Origin style.Point
	Self   style.Resolved
	// Parent is the enclosing box; the root sees a box the size of the surface.
	Parent style.Resolved
	// Asset is the image decoded while the node was measured, if any.
	Asset *assets.RawImage
}

// ContentOrigin returns the top-left corner inside the node's padding. Every
// leaf draws its content here.
func (pc *PaintContext) ContentOrigin() style.Point {
	return pc.Origin.Add(pc.Self.Padding.Left, pc.Self.Padding.Top)
}

// isNil reports whether c is nil or an interface holding a nil pointer.
func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Fail tags err with a render failure kind. The traversal fills in the node.
func Fail(kind rkerrors.Kind, err error) error {
	return rkerrors.NewRenderError("", kind, err)
}

// Failf is Fail with a formatted message.
func Failf(kind rkerrors.Kind, format string, args ...any) error {
	return Fail(kind, fmt.Errorf(format, args...))
}
