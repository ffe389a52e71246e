// Package components provides the node kinds a scene tree is built from.
//
// # Overview
//
// Every kind implements render.Component: it declares a style.RawStyle from
// its own fields, lists its children and paints its own content. Nodes are
// plain structs; build them with literals or the constructors below and do
// not modify them once a render pass has started.
//
// # Kinds
//
// Layout:
//   - Container: arranges children along a row or column, optionally filling
//     its box with a background colour before the children paint.
//
// Leaves:
//   - Image: decodes an external image, scales it to its width keeping the
//     aspect ratio (unless a height is given) and composites it.
//   - Spacer: occupies a fixed box and paints nothing.
//
// # Composition
//
//	page := components.Column(
//		components.NewImage("~/brand/logo.png", 120),
//		components.Row(
//			components.NewImage("shots/a.png", 200),
//			components.NewSpacer(16, 0),
//			components.NewImage("shots/b.png", 200),
//		),
//	).WithPadding(style.Uniform(24)).WithBackground(color.White)
//
//	surface, err := render.Render(page, image.Pt(800, 600), render.NewContext("."))
//
// # Placement
//
// Leaves draw inside their own padding: content starts at the node's origin
// plus its left and top padding. The parent's geometry is available while
// painting but is never added to the draw position.
package components
