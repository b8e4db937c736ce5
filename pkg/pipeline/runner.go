package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackdiagram/pkg/cache"
	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/errors"
	pkgio "github.com/matzehuels/stackdiagram/pkg/io"
	"github.com/matzehuels/stackdiagram/pkg/observability"
	"github.com/matzehuels/stackdiagram/pkg/render"
	"github.com/matzehuels/stackdiagram/pkg/render/dot"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state; multiple goroutines can share one.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Backend render.Backend
	Logger  *log.Logger

	// TTL of cached artifacts; zero means DefaultTTL.
	TTL time.Duration

	// Concurrency bounds parallel renders; zero means DefaultConcurrency.
	Concurrency int
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means cache.DefaultKeyer and a nil backend means render.GraphvizBackend.
func NewRunner(c cache.Cache, keyer cache.Keyer, backend render.Backend, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if backend == nil {
		backend = render.GraphvizBackend{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Backend: backend,
		Logger:  logger,
	}
}

// Execute builds the manifest and renders it.
func (r *Runner) Execute(ctx context.Context, m *pkgio.Manifest, opts Options) (*Result, error) {
	opts.setDefaults(r.Logger)

	start := time.Now()
	d, err := r.build(ctx, m, opts.Logger, opts.DiagramOptions...)
	if err != nil {
		return nil, err
	}
	buildTime := time.Since(start)

	res, err := r.ExecuteDiagram(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.BuildTime = buildTime
	return res, nil
}

// Build runs the construction protocol for m and reports it to the
// pipeline hooks.
func (r *Runner) Build(ctx context.Context, m *pkgio.Manifest, opts ...diagram.Option) (*diagram.Diagram, error) {
	return r.build(ctx, m, r.Logger, opts...)
}

func (r *Runner) build(ctx context.Context, m *pkgio.Manifest, logger *log.Logger, opts ...diagram.Option) (*diagram.Diagram, error) {
	name := ""
	if m != nil {
		name = m.Name
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, name)

	start := time.Now()
	d, err := pkgio.Build(m, opts...)
	var nodes, edges int
	if err == nil {
		nodes, edges = len(d.Nodes()), len(d.Edges())
	}
	hooks.OnBuildComplete(ctx, name, nodes, edges, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logger.Debug("built diagram", "name", name, "nodes", nodes, "edges", edges, "clusters", len(d.Clusters()))
	return d, nil
}

// ExecuteDiagram serializes a closed diagram, renders every requested
// format and writes the artifacts when opts.OutDir is set.
func (r *Runner) ExecuteDiagram(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	opts.setDefaults(r.Logger)

	text, err := dot.ToDOT(d)
	if err != nil {
		return nil, err
	}

	names := opts.Formats
	if len(names) == 0 {
		names = d.Options().Formats
	}
	formats, err := render.ParseFormats(names)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Diagram: d,
		DOT:     []byte(text),
		DOTHash: cache.Hash([]byte(text)),
		Formats: formats,
		Stats: Stats{
			NodeCount:    len(d.Nodes()),
			EdgeCount:    len(d.Edges()),
			ClusterCount: len(d.Clusters()),
		},
	}

	start := time.Now()
	res.Artifacts, res.CacheInfo, err = r.Render(ctx, res.DOT, formats, opts.Refresh)
	if err != nil {
		return nil, err
	}
	res.Stats.RenderTime = time.Since(start)

	opts.Logger.Info("rendered diagram",
		"name", d.Name(),
		"formats", names,
		"cache_hits", res.CacheInfo.Hits,
		"duration", res.Stats.RenderTime)

	if opts.OutDir != "" {
		res.Files, err = WriteArtifacts(opts.OutDir, d.Options().Filename, formats, res.Artifacts)
		if err != nil {
			return nil, err
		}
		for _, f := range res.Files {
			opts.Logger.Debug("wrote artifact", "path", f)
		}
	}
	return res, nil
}

// Render renders dot once per format, concurrently, consulting the cache
// first unless refresh is set. The first failure cancels the other renders
// and is returned unchanged.
func (r *Runner) Render(ctx context.Context, dotText []byte, formats []render.Format, refresh bool) (map[render.Format][]byte, CacheInfo, error) {
	dotHash := cache.Hash(dotText)

	var (
		mu        sync.Mutex
		info      CacheInfo
		artifacts = make(map[render.Format][]byte, len(formats))
	)

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, format := range formats {
		g.Go(func() error {
			data, hit, err := r.renderOne(gctx, dotText, dotHash, format, refresh)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			artifacts[format] = data
			if hit {
				info.Hits++
			} else {
				info.Misses++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, CacheInfo{}, err
	}
	return artifacts, info, nil
}

func (r *Runner) renderOne(ctx context.Context, dotText []byte, dotHash string, format render.Format, refresh bool) ([]byte, bool, error) {
	if format == render.FormatDOT {
		return dotText, false, nil
	}

	cacheHooks := observability.Cache()
	key := r.Keyer.ArtifactKey(dotHash, string(format), r.Backend.Name())

	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			cacheHooks.OnCacheError(ctx, "get", err)
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		case hit:
			cacheHooks.OnCacheHit(ctx, string(format))
			return data, true, nil
		default:
			cacheHooks.OnCacheMiss(ctx, string(format))
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(format), r.Backend.Name())
	start := time.Now()
	data, err := render.Render(ctx, r.Backend, dotText, format)
	hooks.OnRenderComplete(ctx, string(format), r.Backend.Name(), len(data), time.Since(start), err)
	if err != nil {
		if errors.IsRenderBackendError(err) {
			r.Logger.Debug("backend rejected render", "backend", r.Backend.Name(), "format", format, "code", errors.GetCode(err))
		}
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		cacheHooks.OnCacheError(ctx, "set", err)
		r.Logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, string(format), len(data))
	}
	return data, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultTTL
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// WriteArtifacts writes each artifact to dir/<basename><ext> in format
// order and returns the paths. Failures are WRITE_FAILURE errors.
func WriteArtifacts(dir, basename string, formats []render.Format, artifacts map[render.Format][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailure, err, "create %s", dir)
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "no %s artifact to write", f)
		}
		path := filepath.Join(dir, basename+f.Ext())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeWriteFailure, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
