package server

import (
	"context"
	"net/http"

	"github.com/matzehuels/stackdiagram/pkg/errors"
	pkgio "github.com/matzehuels/stackdiagram/pkg/io"
	"github.com/matzehuels/stackdiagram/pkg/pipeline"
	"github.com/matzehuels/stackdiagram/pkg/render"
	"github.com/matzehuels/stackdiagram/pkg/render/dot"
)

// decodeManifest reads the request body in the syntax named by ?syntax=
// (default yaml).
func decodeManifest(r *http.Request) (*pkgio.Manifest, error) {
	name := r.URL.Query().Get("syntax")
	if name == "" {
		name = string(pkgio.SyntaxYAML)
	}
	syntax, err := pkgio.ParseSyntax(name)
	if err != nil {
		return nil, err
	}
	return pkgio.Decode(r.Body, syntax, "request."+string(syntax))
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RenderTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RenderTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(render.FormatSVG)
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	m, err := decodeManifest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()
	res, err := s.runner.Execute(ctx, m, pipeline.Options{
		Formats: []string{string(format)},
		Refresh: r.URL.Query().Get("refresh") == "true",
		Logger:  s.logger,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.RenderHit() {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("ETag", `"`+res.DOTHash+`"`)
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	m, err := decodeManifest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	d, err := s.runner.Build(r.Context(), m)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	text, err := dot.ToDOT(d)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "serialize"))
		return
	}
	w.Header().Set("Content-Type", render.FormatDOT.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
