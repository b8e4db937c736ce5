// Package pipeline runs the manifest → diagram → DOT → artifact pipeline
// shared by the CLI and the HTTP service.
//
// # Stages
//
//  1. Build: run the construction protocol for a manifest ([pkgio.Build])
//  2. Serialize: emit deterministic DOT text ([dot.ToDOT])
//  3. Render: hand the DOT to a [render.Backend] once per format
//
// Rendered artifacts are cached under the SHA-256 of the DOT text, so an
// unchanged diagram is never laid out twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, render.GraphvizBackend{}, logger)
//	result, err := runner.Execute(ctx, manifest, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	    OutDir:  "out",
//	})
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/render"
)

const (
	// DefaultTTL is how long rendered artifacts stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultConcurrency bounds the number of formats rendered at once.
	DefaultConcurrency = 4
)

// Options configure a pipeline run.
type Options struct {
	// Formats overrides the formats declared by the diagram.
	Formats []string

	// OutDir is where artifacts are written as <filename>.<ext>. Empty
	// keeps them in memory only.
	OutDir string

	// Refresh skips cache reads; fresh artifacts are still stored.
	Refresh bool

	// DiagramOptions are applied after the manifest's own options.
	DiagramOptions []diagram.Option

	// Logger receives this run's log lines, typically tagged with the
	// manifest. Nil means the runner's logger.
	Logger *log.Logger
}

func (o *Options) setDefaults(fallback *log.Logger) {
	if o.Logger == nil {
		o.Logger = fallback
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Diagram *diagram.Diagram

	// DOT is the serialized diagram and DOTHash its SHA-256.
	DOT     []byte
	DOTHash string

	// Formats lists the rendered formats in request order.
	Formats []render.Format

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Files lists the written paths in format order.
	Files []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	ClusterCount int
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo counts artifact cache hits and misses.
type CacheInfo struct {
	Hits   int
	Misses int
}

// RenderHit reports whether every artifact came from the cache.
func (c CacheInfo) RenderHit() bool {
	return c.Misses == 0 && c.Hits > 0
}
