package diagram

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Direction is the rank direction of the layout.
type Direction string

const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// Formats recognized as diagram output formats.
var Formats = []string{"png", "jpg", "svg", "pdf", "dot"}

// Options configure a diagram. Use the With* functions to set them.
type Options struct {
	Title     string
	Filename  string
	Formats   []string
	Direction Direction
	Curve     string
	Strict    bool
	AutoLabel bool

	Graph GraphAttrs
	Node  NodeAttrs
	Edge  EdgeAttrs

	IDs IDGenerator
}

// Option configures a diagram.
type Option func(*Options)

// WithTitle sets the title shown in the output. Defaults to the diagram name.
func WithTitle(title string) Option { return func(o *Options) { o.Title = title } }

// WithFilename sets the output base name, without extension. It must be a
// relative path that stays inside the output directory.
func WithFilename(name string) Option { return func(o *Options) { o.Filename = name } }

// WithFormats sets the output formats (png, jpg, svg, pdf, dot).
func WithFormats(formats ...string) Option {
	return func(o *Options) { o.Formats = slices.Clone(formats) }
}

// WithDirection sets the rank direction.
func WithDirection(d Direction) Option { return func(o *Options) { o.Direction = d } }

// WithCurve sets the edge routing style (the DOT splines attribute).
func WithCurve(curve string) Option { return func(o *Options) { o.Curve = curve } }

// WithStrict emits a strict digraph, merging parallel edges in the backend.
func WithStrict(strict bool) Option { return func(o *Options) { o.Strict = strict } }

// WithAutoLabel prefixes node labels with the category's type name.
func WithAutoLabel(on bool) Option { return func(o *Options) { o.AutoLabel = on } }

// WithGraphAttrs overrides diagram-wide graph attributes.
func WithGraphAttrs(a GraphAttrs) Option {
	return func(o *Options) { o.Graph = o.Graph.Merge(a) }
}

// WithNodeAttrs overrides the default attributes of every node.
func WithNodeAttrs(a NodeAttrs) Option {
	return func(o *Options) { o.Node = o.Node.Merge(a) }
}

// WithEdgeAttrs overrides the default attributes of every edge.
func WithEdgeAttrs(a EdgeAttrs) Option {
	return func(o *Options) { o.Edge = o.Edge.Merge(a) }
}

// WithIDGenerator replaces the default per-diagram [SequentialIDs].
func WithIDGenerator(g IDGenerator) Option { return func(o *Options) { o.IDs = g } }

var separators = regexp.MustCompile(`[\s/\\]+`)

// DefaultFilename derives an output base name from a diagram name:
// lower-cased, with runs of whitespace and path separators replaced by
// underscores.
func DefaultFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "diagram"
	}
	return separators.ReplaceAllString(strings.ToLower(name), "_")
}

func buildOptions(name string, opts []Option) (Options, error) {
	o := Options{
		Direction: LeftToRight,
		Curve:     "ortho",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Title == "" {
		o.Title = name
	}
	if o.Filename == "" {
		o.Filename = DefaultFilename(name)
	} else if err := errors.ValidatePath(o.Filename); err != nil {
		return o, errors.Wrap(errors.ErrCodeInvalidPath, err, "diagram %q: filename %q", name, o.Filename)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{"png"}
	}
	if o.IDs == nil {
		o.IDs = NewSequentialIDs()
	}

	switch o.Direction {
	case TopToBottom, BottomToTop, LeftToRight, RightToLeft:
	default:
		return o, errors.New(errors.ErrCodeInvalidAttribute, "diagram %q: direction %q is not one of TB, BT, LR, RL", name, o.Direction)
	}
	switch o.Curve {
	case "ortho", "curved", "spline", "polyline", "line":
	default:
		return o, errors.New(errors.ErrCodeInvalidAttribute, "diagram %q: curve %q is not one of ortho, curved, spline, polyline, line", name, o.Curve)
	}
	for _, f := range o.Formats {
		if !slices.Contains(Formats, f) {
			return o, errors.New(errors.ErrCodeInvalidFormat, "diagram %q: unsupported format %q (want %s)", name, f, strings.Join(Formats, ", "))
		}
	}
	entity := "diagram " + quote(name)
	if err := ValidateAttrs(entity+" graph", o.Graph); err != nil {
		return o, err
	}
	if err := ValidateAttrs(entity+" node defaults", o.Node); err != nil {
		return o, err
	}
	if err := ValidateAttrs(entity+" edge defaults", o.Edge); err != nil {
		return o, err
	}
	return o, nil
}
