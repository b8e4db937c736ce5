package render

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Backend is an opaque layout and rasterization engine.
//
// Render lays out the DOT text and writes the artifact in the given format to
// w. Failures are classified as BACKEND_MISSING, MALFORMED_GRAPH_INPUT or
// WRITE_FAILURE. Backends never retry and add no timeout of their own; ctx is
// the caller's to bound.
type Backend interface {
	Name() string
	Render(ctx context.Context, dot []byte, format Format, w io.Writer) error
}

// Backend kinds accepted by [NewBackend].
const (
	KindGraphviz = "graphviz"
	KindExec     = "exec"
)

// NewBackend returns the backend of the given kind. dotBinary is only used
// by the exec backend; empty means "dot" on PATH.
func NewBackend(kind, dotBinary string) (Backend, error) {
	switch kind {
	case "", KindGraphviz:
		return GraphvizBackend{}, nil
	case KindExec:
		return ExecBackend{Binary: dotBinary}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown render backend %q (want %s or %s)", kind, KindGraphviz, KindExec)
}

// RenderFile renders dot with b and writes the result to path, creating
// parent directories as needed. Format dot writes the text itself without
// calling the backend. A partially written file is left in place.
func RenderFile(ctx context.Context, b Backend, dot []byte, format Format, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailure, err, "create directory for %s", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "create %s", path)
	}

	if format == FormatDOT {
		_, err = f.Write(dot)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeWriteFailure, err, "write %s", path)
		}
	} else {
		err = b.Render(ctx, dot, format, f)
	}

	if cerr := f.Close(); cerr != nil && err == nil {
		err = errors.Wrap(errors.ErrCodeWriteFailure, cerr, "close %s", path)
	}
	return err
}

// Render renders dot with b into memory. Format dot returns the input.
func Render(ctx context.Context, b Backend, dot []byte, format Format) ([]byte, error) {
	if format == FormatDOT {
		return dot, nil
	}
	var buf bytes.Buffer
	if err := b.Render(ctx, dot, format, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// recordingWriter remembers the first error of the wrapped writer so that a
// failed render can be told apart from a failed write.
type recordingWriter struct {
	w   io.Writer
	err error
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	n, err := r.w.Write(p)
	if err != nil && r.err == nil {
		r.err = err
	}
	return n, err
}

// classify turns a backend failure into a coded error. A failure caused by
// the destination writer is a WRITE_FAILURE, anything else is blamed on the
// graph.
func classify(backend string, rw *recordingWriter, err error, format Format) error {
	if rw.err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, rw.err, "%s: write %s output", backend, format)
	}
	return errors.Wrap(errors.ErrCodeMalformedGraph, err, "%s: render %s", backend, format)
}

func unsupported(backend string, format Format) error {
	return errors.New(errors.ErrCodeInvalidFormat, "%s: unsupported format %q", backend, format)
}
