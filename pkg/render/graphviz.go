package render

import (
	"bytes"
	"context"
	"io"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// GraphvizBackend renders in-process with go-graphviz. SVG, PNG and JPG are
// produced directly; PDF is converted from SVG with rsvg-convert.
type GraphvizBackend struct{}

// Name implements [Backend].
func (GraphvizBackend) Name() string { return KindGraphviz }

// Render implements [Backend].
func (b GraphvizBackend) Render(ctx context.Context, dot []byte, format Format, w io.Writer) error {
	rw := &recordingWriter{w: w}

	switch format {
	case FormatDOT:
		if err := b.parse(ctx, dot); err != nil {
			return err
		}
		if _, err := rw.Write(dot); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailure, err, "graphviz: write dot output")
		}
		return nil
	case FormatPDF:
		var svg bytes.Buffer
		if err := b.Render(ctx, dot, FormatSVG, &svg); err != nil {
			return err
		}
		pdf, err := ToPDF(svg.Bytes())
		if err != nil {
			return err
		}
		if _, err := rw.Write(pdf); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailure, err, "graphviz: write pdf output")
		}
		return nil
	}

	gvFormat, ok := graphvizFormats[format]
	if !ok {
		return unsupported(KindGraphviz, format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackendMissing, err, "graphviz: init engine")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil || g == nil {
		return errors.Wrap(errors.ErrCodeMalformedGraph, err, "graphviz: parse DOT")
	}
	defer g.Close()

	if err := gv.Render(ctx, g, gvFormat, rw); err != nil {
		return classify(KindGraphviz, rw, err, format)
	}
	return nil
}

// parse checks that dot is accepted by the engine without rendering it.
func (GraphvizBackend) parse(ctx context.Context, dot []byte) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackendMissing, err, "graphviz: init engine")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil || g == nil {
		return errors.Wrap(errors.ErrCodeMalformedGraph, err, "graphviz: parse DOT")
	}
	return g.Close()
}

var graphvizFormats = map[Format]graphviz.Format{
	FormatSVG: graphviz.SVG,
	FormatPNG: graphviz.PNG,
	FormatJPG: graphviz.JPG,
}
