// Package render resolves a component tree into absolute boxes and composites
// it into a single raster surface.
//
// A pass has two phases over the same tree:
//
//  1. Layout walks top-down handing each node the space its parent offers,
//     and folds children's resolved extents back up into the parent's box.
//     The result is a Box tree holding one style.Resolved per node.
//  2. Paint walks the Box tree depth-first. Each node paints itself at the
//     cursor it inherited, then each child receives a cursor advanced past
//     the parent's padding and the siblings painted before it.
//
// Both phases stop at the first failure and report a *errors.RenderError
// naming the node by path (root/1/0, with #id appended for named nodes).
// Nothing in this package logs.
//
// Decoding can be moved ahead of the pass with Prefetch, which fills the
// Context cache concurrently; the blit step itself stays serial because
// composition order is part of the output.
package render
