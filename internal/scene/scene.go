// Package scene turns validated scene documents into component trees.
package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/rasterkit/internal/components"
	"github.com/alexisbeaulieu97/rasterkit/internal/config"
	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// Build converts a document node and its descendants into components.
func Build(node config.Node) (render.Component, error) {
	return build(node, "root")
}

func build(n config.Node, path string) (render.Component, error) {
	top, right, bottom, left, err := n.Padding.Edges()
	if err != nil {
		return nil, rkerrors.NewValidationError(path+".padding", err.Error(), err)
	}
	padding := style.Sides(top, right, bottom, left)

	switch n.Type {
	case config.NodeContainer:
		axis := style.Row
		if n.Align != "" {
			if axis, err = style.ParseAxis(n.Align); err != nil {
				return nil, rkerrors.NewValidationError(path+".align", err.Error(), err)
			}
		}
		c := &components.Container{
			ID:        n.ID,
			Axis:      axis,
			Padding:   padding,
			MinWidth:  n.MinWidth,
			MinHeight: n.MinHeight,
			Width:     n.Width,
			Height:    n.Height,
			Stretch:   n.Stretch,
			Radius:    n.Radius,
		}
		if n.Background != "" {
			bg, err := ParseColor(n.Background)
			if err != nil {
				return nil, rkerrors.NewValidationError(path+".background", err.Error(), err)
			}
			c.Background = bg
		}
		for i, child := range n.Children {
			built, err := build(child, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			c.Items = append(c.Items, built)
		}
		return c, nil

	case config.NodeImage:
		if n.Width == nil {
			return nil, rkerrors.NewValidationError(path+".width", "image nodes require a width", nil)
		}
		return &components.Image{
			ID:      n.ID,
			Path:    n.Source,
			Width:   *n.Width,
			Height:  n.Height,
			Padding: padding,
		}, nil

	case config.NodeSpacer:
		s := &components.Spacer{ID: n.ID}
		if n.Width != nil {
			s.Width = *n.Width
		}
		if n.Height != nil {
			s.Height = *n.Height
		}
		return s, nil

	default:
		return nil, rkerrors.NewValidationError(path+".type", fmt.Sprintf("unknown node type %q", n.Type), nil)
	}
}

// ParseColor parses #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if (len(hex) != 6 && len(hex) != 8) || len(hex) == len(s) {
		return color.NRGBA{}, fmt.Errorf("colour %q must be #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
