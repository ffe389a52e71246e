package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/rasterkit/internal/assets"
	"github.com/alexisbeaulieu97/rasterkit/internal/config"
	"github.com/alexisbeaulieu97/rasterkit/internal/logger"
	"github.com/alexisbeaulieu97/rasterkit/internal/model"
	"github.com/alexisbeaulieu97/rasterkit/internal/raster"
	"github.com/alexisbeaulieu97/rasterkit/internal/render"
	"github.com/alexisbeaulieu97/rasterkit/internal/scene"
	"github.com/alexisbeaulieu97/rasterkit/internal/style"
	rkerrors "github.com/alexisbeaulieu97/rasterkit/pkg/errors"
)

// JPEGQuality is used for .jpg and .jpeg outputs.
const JPEGQuality = 90

// Service renders the outputs of scene documents to disk.
type Service struct {
	log *logger.Logger
	now func() time.Time
}

// NewService constructs a service. A nil logger discards log output.
func NewService(log *logger.Logger) *Service {
	return &Service{log: log, now: time.Now}
}

// RenderRequest configures one render run.
type RenderRequest struct {
	Document *config.Document
	// Only restricts the run to these output ids; empty means all.
	Only []string
	// OutDir, when set, replaces the document directory as the base for
	// relative output paths.
	OutDir          string
	ContinueOnError bool
	// Workers overrides the document setting when positive.
	Workers  int
	NoCache  bool
	OnResult func(model.OutputResult)
}

// RenderOutcome collects the per-output results in document order.
type RenderOutcome struct {
	Results []model.OutputResult
	Summary model.Summary
	Assets  AssetInfo
}

// AssetInfo describes where image sources were resolved from.
type AssetInfo struct {
	Dir  string
	Sync *assets.SyncResult
}

// Render syncs assets and renders the selected outputs concurrently. The
// first failure cancels outputs that have not started unless
// ContinueOnError is set; every failure is reported as an OutputError.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*RenderOutcome, error) {
	doc := req.Document
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}

	outputs, err := selectOutputs(doc, req.Only)
	if err != nil {
		return nil, err
	}

	info, err := s.prepareAssets(ctx, doc)
	if err != nil {
		return nil, err
	}

	workers := doc.Settings.Workers
	if req.Workers > 0 {
		workers = req.Workers
	}
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	continueOnError := doc.Settings.ContinueOnError || req.ContinueOnError

	var cache *assets.Cache
	if !doc.Settings.NoCache && !req.NoCache {
		cache = assets.NewCache()
	}
	rc := &render.Context{
		Paths:   assets.HomeResolver{BaseDir: info.Dir},
		Decoder: assets.FileDecoder{},
		Cache:   cache,
	}

	outBase := doc.BaseDir
	if req.OutDir != "" {
		outBase = req.OutDir
	}

	results := make([]model.OutputResult, len(outputs))
	var mu sync.Mutex
	report := func(i int, r model.OutputResult) {
		mu.Lock()
		defer mu.Unlock()
		if r.Finished() {
			results[i] = r
		}
		if req.OnResult != nil {
			req.OnResult(r)
		}
	}

	s.log.Info("rendering outputs", "count", len(outputs), "workers", workers, "assets", info.Dir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var failures []error
	for i, out := range outputs {
		g.Go(func() error {
			log := s.log.ForOutput(out.ID)
			skip := func() {
				report(i, model.OutputResult{
					OutputID:  out.ID,
					Status:    model.StatusSkipped,
					Message:   "cancelled before completion",
					Timestamp: s.now(),
				})
			}
			if gctx.Err() != nil {
				skip()
				return nil
			}

			report(i, model.OutputResult{OutputID: out.ID, Status: model.StatusRunning, Timestamp: s.now()})
			start := s.now()
			path, err := s.renderOutput(gctx, out, rc, outBase, workers)
			elapsed := s.now().Sub(start)

			if err != nil && errors.Is(err, context.Canceled) && gctx.Err() != nil {
				skip()
				return nil
			}
			if err != nil {
				outErr := rkerrors.NewOutputError(out.ID, err)
				log.Error(err, "output failed", "duration", elapsed)
				report(i, model.OutputResult{
					OutputID:  out.ID,
					Status:    model.StatusFailed,
					Message:   err.Error(),
					Path:      path,
					Error:     outErr,
					Duration:  elapsed,
					Timestamp: s.now(),
				})
				mu.Lock()
				failures = append(failures, outErr)
				mu.Unlock()
				if continueOnError {
					return nil
				}
				return outErr
			}

			log.Info("output rendered", "path", path, "duration", elapsed)
			report(i, model.OutputResult{
				OutputID:  out.ID,
				Status:    model.StatusSuccess,
				Message:   fmt.Sprintf("%dx%d", out.Width, out.Height),
				Path:      path,
				Duration:  elapsed,
				Timestamp: s.now(),
			})
			return nil
		})
	}
	_ = g.Wait()

	outcome := &RenderOutcome{Results: results, Assets: info}
	outcome.Summary = model.Summarize(results)

	if len(failures) > 0 {
		return outcome, errors.Join(failures...)
	}
	if err := ctx.Err(); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// InspectRequest selects one output to lay out.
type InspectRequest struct {
	Document *config.Document
	OutputID string
}

// Inspect resolves the layout of one output without painting it. An empty
// OutputID picks the first output.
func (s *Service) Inspect(ctx context.Context, req InspectRequest) ([]render.Placement, error) {
	doc := req.Document
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	if len(doc.Outputs) == 0 {
		return nil, fmt.Errorf("document has no outputs")
	}

	out := doc.Outputs[0]
	if req.OutputID != "" {
		var ok bool
		if out, ok = doc.OutputByID(req.OutputID); !ok {
			return nil, rkerrors.NewValidationError("output", fmt.Sprintf("unknown output %q", req.OutputID), nil)
		}
	}

	info, err := s.prepareAssets(ctx, doc)
	if err != nil {
		return nil, err
	}

	root, err := scene.Build(out.Root)
	if err != nil {
		return nil, rkerrors.NewOutputError(out.ID, err)
	}
	box, err := render.Layout(root, offer(out), render.NewContext(info.Dir))
	if err != nil {
		return nil, rkerrors.NewOutputError(out.ID, err)
	}
	return render.Arrange(box), nil
}

func (s *Service) renderOutput(ctx context.Context, out config.Output, rc *render.Context, outBase string, workers int) (string, error) {
	root, err := scene.Build(out.Root)
	if err != nil {
		return "", err
	}

	if err := render.Prefetch(ctx, root, rc, workers); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var opts []render.Option
	if out.Background != "" {
		bg, err := scene.ParseColor(out.Background)
		if err != nil {
			return "", err
		}
		opts = append(opts, render.WithBackground(bg))
	}

	surface, err := render.Render(root, image.Pt(out.Width, out.Height), rc, opts...)
	if err != nil {
		return "", err
	}

	path := out.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(outBase, path)
	}
	return path, writeSurface(path, surface)
}

// prepareAssets syncs the git source when configured and returns the
// directory relative image sources resolve against.
func (s *Service) prepareAssets(ctx context.Context, doc *config.Document) (AssetInfo, error) {
	root := doc.BaseDir
	var info AssetInfo

	if repo := doc.Assets.Repo; repo != nil {
		src := assets.GitSource{
			URL:         repo.URL,
			Branch:      repo.Branch,
			Depth:       repo.Depth,
			Destination: resolveDir(doc.BaseDir, repo.Destination),
		}
		res, err := src.Sync(ctx)
		if err != nil {
			return AssetInfo{}, fmt.Errorf("sync assets from %s: %w", repo.URL, err)
		}
		s.log.Info("assets synced", "url", repo.URL, "dir", res.Dir, "cloned", res.Cloned, "head", res.Head)
		info.Sync = &res
		root = res.Dir
	}

	info.Dir = resolveDir(root, doc.Assets.Dir)
	return info, nil
}

func selectOutputs(doc *config.Document, only []string) ([]config.Output, error) {
	if len(only) == 0 {
		return doc.Outputs, nil
	}

	want := make(map[string]bool, len(only))
	for _, id := range only {
		if _, ok := doc.OutputByID(id); !ok {
			return nil, rkerrors.NewValidationError("only", fmt.Sprintf("unknown output %q (have %s)", id, strings.Join(outputIDs(doc), ", ")), nil)
		}
		want[id] = true
	}

	var out []config.Output
	for _, o := range doc.Outputs {
		if want[o.ID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func outputIDs(doc *config.Document) []string {
	ids := make([]string, 0, len(doc.Outputs))
	for _, o := range doc.Outputs {
		ids = append(ids, o.ID)
	}
	return ids
}

func resolveDir(base, dir string) string {
	switch {
	case dir == "":
		return base
	case filepath.IsAbs(dir), strings.HasPrefix(dir, "~"):
		return assets.HomeResolver{}.Expand(dir)
	default:
		return filepath.Join(base, dir)
	}
}

func offer(out config.Output) style.Size {
	return style.Size{Width: float64(out.Width), Height: float64(out.Height)}
}

func writeSurface(path string, surface *raster.Surface) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = surface.EncodeJPEG(f, JPEGQuality)
	default:
		err = surface.EncodePNG(f)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
