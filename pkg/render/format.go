package render

import (
	"strings"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Format is an output format of the renderer.
type Format string

const (
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatDOT Format = "dot"
)

// AllFormats lists every supported format.
var AllFormats = []Format{FormatPNG, FormatJPG, FormatSVG, FormatPDF, FormatDOT}

// ParseFormat parses a format name. "jpeg" is accepted as an alias of jpg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "svg":
		return FormatSVG, nil
	case "pdf":
		return FormatPDF, nil
	case "dot", "gv":
		return FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want png, jpg, svg, pdf or dot)", s)
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
