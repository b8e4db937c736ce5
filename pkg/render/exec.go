package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// ExecBackend renders by running the Graphviz dot executable.
type ExecBackend struct {
	// Binary is the path or name of the dot executable. Empty means "dot".
	Binary string
}

// Name implements [Backend].
func (ExecBackend) Name() string { return KindExec }

func (b ExecBackend) binary() string {
	if b.Binary == "" {
		return "dot"
	}
	return b.Binary
}

// Render implements [Backend]. The process is bound to ctx.
func (b ExecBackend) Render(ctx context.Context, dot []byte, format Format, w io.Writer) error {
	switch format {
	case FormatPNG, FormatJPG, FormatSVG, FormatPDF, FormatDOT:
	default:
		return unsupported(KindExec, format)
	}

	bin, err := exec.LookPath(b.binary())
	if err != nil {
		return errors.Wrap(errors.ErrCodeBackendMissing, err,
			"graphviz executable %q not found. Install with:\n  macOS:  brew install graphviz\n  Linux:  apt install graphviz", b.binary())
	}

	rw := &recordingWriter{w: w}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-T"+string(format))
	cmd.Stdin = bytes.NewReader(dot)
	cmd.Stdout = rw
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", bin, ctx.Err())
		}
		return errors.Wrap(errors.ErrCodeBackendMissing, err, "start %s", bin)
	}
	err = cmd.Wait()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", bin, ctx.Err())
	}
	if rw.err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, rw.err, "%s: write %s output", KindExec, format)
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return errors.New(errors.ErrCodeMalformedGraph, "%s -T%s: %s", bin, format, msg)
}
