package render

import (
	"bytes"
	"os/exec"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// RsvgConvert is the converter binary used for SVG to PDF/PNG conversion.
var RsvgConvert = "rsvg-convert"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

func rsvgConvert(svg []byte, format string) ([]byte, error) {
	bin, err := exec.LookPath(RsvgConvert)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackendMissing, err,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	cmd := exec.Command(bin, "-f", format)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedGraph, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
