package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexisbeaulieu97/rasterkit/internal/assets"
	"github.com/alexisbeaulieu97/rasterkit/internal/raster"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// Box pairs a node with the geometry it resolved to for one pass.
type Box struct {
	Node     Component
	Path     string
	Style    style.Resolved
	Children []*Box
	// Asset is the decoded image a Measurer sized the node from.
	Asset *assets.RawImage
}

// Layout resolves every node of the tree rooted at root against the offered
// space. The first failure aborts resolution; no partial tree is returned.
func Layout(root Component, offer style.Size, rc *Context) (*Box, error) {
	if isNil(root) {
		return nil, rkerrors.NewRenderError("root", rkerrors.KindInvalidGeometry, errors.New("tree has no root"))
	}
	return resolve(root, nodePath("root", root), offer, rc)
}

func resolve(node Component, path string, offer style.Size, rc *Context) (*Box, error) {
	raw := node.Style()
	if err := raw.Validate(); err != nil {
		return nil, nodeError(path, rkerrors.KindInvalidGeometry, err)
	}

	box := &Box{Node: node, Path: path}

	var content style.Size
	if m, ok := node.(Measurer); ok {
		w := raw.ContentWidth()
		ms, err := m.Measure(rc, w)
		if err != nil {
			return nil, nodeError(path, rkerrors.KindDecodeFailure, err)
		}
		content = style.Size{Width: w, Height: ms.Height}
		box.Asset = ms.Asset
	}

	if children := node.Children(); len(children) > 0 {
		inner := raw.Inner(offer)
		resolved := make([]style.Resolved, 0, len(children))
		box.Children = make([]*Box, 0, len(children))

		var consumed float64
		for i, child := range children {
			childPath := fmt.Sprintf("%s/%d", path, i)
			if isNil(child) {
				return nil, rkerrors.NewRenderError(childPath, rkerrors.KindInvalidGeometry, errors.New("nil child"))
			}
			childOffer := inner
			if raw.Align == style.Column {
				childOffer.Height = math.Max(0, inner.Height-consumed)
			} else {
				childOffer.Width = math.Max(0, inner.Width-consumed)
			}

			cb, err := resolve(child, nodePath(childPath, child), childOffer, rc)
			if err != nil {
				return nil, err
			}
			box.Children = append(box.Children, cb)
			resolved = append(resolved, cb.Style)
			consumed += cb.Style.Extent(raw.Align)
		}

		fit := style.Content(raw.Align, resolved)
		content.Width = math.Max(content.Width, fit.Width)
		content.Height = math.Max(content.Height, fit.Height)
	}

	s, err := style.Resolve(raw, offer, content)
	if err != nil {
		return nil, nodeError(path, rkerrors.KindInvalidGeometry, err)
	}
	box.Style = s
	return box, nil
}

func nodePath(path string, node Component) string {
	if isNil(node) {
		return path
	}
	if n, ok := node.(Named); ok && n.Name() != "" {
		return path + "#" + n.Name()
	}
	return path
}

// nodeError attributes err to the node at path. Errors already attributed to a
// deeper node pass through; fallback is used when err carries no kind.
func nodeError(path string, fallback rkerrors.Kind, err error) error {
	var renderErr *rkerrors.RenderError
	if errors.As(err, &renderErr) {
		if renderErr.Node != "" {
			return err
		}
		kind := renderErr.Kind
		if kind == rkerrors.KindUnknown {
			kind = fallback
		}
		return rkerrors.NewRenderError(path, kind, renderErr.Err)
	}

	kind := rkerrors.KindOf(err)
	switch {
	case kind != rkerrors.KindUnknown:
	case errors.Is(err, style.ErrInvalidGeometry):
		kind = rkerrors.KindInvalidGeometry
	case errors.Is(err, raster.ErrBufferSize), errors.Is(err, raster.ErrTransform):
		kind = rkerrors.KindCompositionFailure
	default:
		kind = fallback
	}
	return rkerrors.NewRenderError(path, kind, err)
}
