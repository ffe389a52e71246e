package render

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

type fetch struct {
	locator string
	node    string
}

// Prefetch decodes every distinct asset referenced by the tree into the
// context cache, at most workers at a time, so the paint pass only blits.
// It is a no-op when the context has no cache.
func Prefetch(ctx context.Context, root Component, rc *Context, workers int) error {
	if rc == nil || rc.Cache == nil || isNil(root) {
		return nil
	}

	seen := make(map[string]struct{})
	var jobs []fetch
	var collect func(node Component, path string)
	collect = func(node Component, path string) {
		if isNil(node) {
			return
		}
		if s, ok := node.(Sourced); ok {
			resolved := rc.Resolve(s.Source())
			if _, dup := seen[resolved]; !dup {
				seen[resolved] = struct{}{}
				jobs = append(jobs, fetch{locator: s.Source(), node: path})
			}
		}
		for i, child := range node.Children() {
			collect(child, nodePath(fmt.Sprintf("%s/%d", path, i), child))
		}
	}
	collect(root, nodePath("root", root))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := rc.Load(job.locator); err != nil {
				return nodeError(job.node, rkerrors.KindDecodeFailure, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Assets lists the distinct resolved asset paths referenced by the tree, in
// first-use order.
func Assets(root Component, rc *Context) []string {
	var out []string
	seen := make(map[string]struct{})
	var collect func(node Component)
	collect = func(node Component) {
		if isNil(node) {
			return
		}
		if s, ok := node.(Sourced); ok {
			p := rc.Resolve(s.Source())
			if _, dup := seen[p]; !dup {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
		for _, child := range node.Children() {
			collect(child)
		}
	}
	collect(root)
	return out
}
