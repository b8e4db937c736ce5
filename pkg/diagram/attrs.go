package diagram

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

var (
	validate *validator.Validate

	hexColor   = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)
	namedColor = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

	styleWords = map[string]bool{
		"solid": true, "dashed": true, "dotted": true, "bold": true, "invis": true,
		"rounded": true, "filled": true, "striped": true, "wedged": true,
		"diagonals": true, "radial": true,
	}
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("dotcolor", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return hexColor.MatchString(s) || namedColor.MatchString(s)
	})
	_ = validate.RegisterValidation("dotstyle", func(fl validator.FieldLevel) bool {
		for _, w := range strings.Split(fl.Field().String(), ",") {
			if !styleWords[strings.TrimSpace(w)] {
				return false
			}
		}
		return true
	})
}

// GraphAttrs are diagram-wide graph attributes. Zero fields keep the default.
type GraphAttrs struct {
	FontSize  float64 `json:"fontsize,omitempty" yaml:"fontsize,omitempty" toml:"fontsize,omitempty" hcl:"fontsize,optional" validate:"omitempty,gt=0,lte=256"`
	FontName  string  `json:"fontname,omitempty" yaml:"fontname,omitempty" toml:"fontname,omitempty" hcl:"fontname,optional" validate:"omitempty,max=128"`
	FontColor string  `json:"fontcolor,omitempty" yaml:"fontcolor,omitempty" toml:"fontcolor,omitempty" hcl:"fontcolor,optional" validate:"omitempty,dotcolor"`
	BgColor   string  `json:"bgcolor,omitempty" yaml:"bgcolor,omitempty" toml:"bgcolor,omitempty" hcl:"bgcolor,optional" validate:"omitempty,dotcolor"`
	Pad       float64 `json:"pad,omitempty" yaml:"pad,omitempty" toml:"pad,omitempty" hcl:"pad,optional" validate:"gte=0,lte=100"`
	NodeSep   float64 `json:"nodesep,omitempty" yaml:"nodesep,omitempty" toml:"nodesep,omitempty" hcl:"nodesep,optional" validate:"gte=0,lte=100"`
	RankSep   float64 `json:"ranksep,omitempty" yaml:"ranksep,omitempty" toml:"ranksep,omitempty" hcl:"ranksep,optional" validate:"gte=0,lte=100"`
	Splines   string  `json:"splines,omitempty" yaml:"splines,omitempty" toml:"splines,omitempty" hcl:"splines,optional" validate:"omitempty,oneof=ortho curved spline polyline line none"`
}

// NodeAttrs style a single node, or every node of a scope when used as
// block-level defaults.
type NodeAttrs struct {
	Shape     string  `json:"shape,omitempty" yaml:"shape,omitempty" toml:"shape,omitempty" hcl:"shape,optional" validate:"omitempty,oneof=box rect rectangle square circle ellipse oval point plaintext plain none note tab folder box3d component cylinder diamond doublecircle hexagon octagon triangle underline record Mrecord"`
	Style     string  `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty" hcl:"style,optional" validate:"omitempty,dotstyle"`
	FillColor string  `json:"fillcolor,omitempty" yaml:"fillcolor,omitempty" toml:"fillcolor,omitempty" hcl:"fillcolor,optional" validate:"omitempty,dotcolor"`
	Color     string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty" hcl:"color,optional" validate:"omitempty,dotcolor"`
	FontColor string  `json:"fontcolor,omitempty" yaml:"fontcolor,omitempty" toml:"fontcolor,omitempty" hcl:"fontcolor,optional" validate:"omitempty,dotcolor"`
	FontName  string  `json:"fontname,omitempty" yaml:"fontname,omitempty" toml:"fontname,omitempty" hcl:"fontname,optional" validate:"omitempty,max=128"`
	FontSize  float64 `json:"fontsize,omitempty" yaml:"fontsize,omitempty" toml:"fontsize,omitempty" hcl:"fontsize,optional" validate:"omitempty,gt=0,lte=256"`
	Width     float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty" hcl:"width,optional" validate:"gte=0,lte=100"`
	Height    float64 `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty" hcl:"height,optional" validate:"gte=0,lte=100"`
	Image     string  `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty" hcl:"image,optional" validate:"omitempty,max=4096"`
	LabelLoc  string  `json:"labelloc,omitempty" yaml:"labelloc,omitempty" toml:"labelloc,omitempty" hcl:"labelloc,optional" validate:"omitempty,oneof=t c b"`
	Tooltip   string  `json:"tooltip,omitempty" yaml:"tooltip,omitempty" toml:"tooltip,omitempty" hcl:"tooltip,optional" validate:"omitempty,max=1024"`
	PenWidth  float64 `json:"penwidth,omitempty" yaml:"penwidth,omitempty" toml:"penwidth,omitempty" hcl:"penwidth,optional" validate:"gte=0,lte=100"`
}

// EdgeAttrs style every edge produced by one connect declaration.
type EdgeAttrs struct {
	Label     string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty" hcl:"label,optional" validate:"omitempty,max=1024"`
	Color     string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty" hcl:"color,optional" validate:"omitempty,dotcolor"`
	Style     string  `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty" hcl:"style,optional" validate:"omitempty,oneof=solid dashed dotted bold invis"`
	Dir       string  `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty" hcl:"dir,optional" validate:"omitempty,oneof=forward back both none"`
	FontColor string  `json:"fontcolor,omitempty" yaml:"fontcolor,omitempty" toml:"fontcolor,omitempty" hcl:"fontcolor,optional" validate:"omitempty,dotcolor"`
	FontSize  float64 `json:"fontsize,omitempty" yaml:"fontsize,omitempty" toml:"fontsize,omitempty" hcl:"fontsize,optional" validate:"omitempty,gt=0,lte=256"`
	PenWidth  float64 `json:"penwidth,omitempty" yaml:"penwidth,omitempty" toml:"penwidth,omitempty" hcl:"penwidth,optional" validate:"gte=0,lte=100"`
	MinLen    int     `json:"minlen,omitempty" yaml:"minlen,omitempty" toml:"minlen,omitempty" hcl:"minlen,optional" validate:"gte=0,lte=100"`
}

// ClusterAttrs style a cluster box. Nodes holds defaults inherited by every
// node inside the cluster, nested clusters included.
type ClusterAttrs struct {
	BgColor   string    `json:"bgcolor,omitempty" yaml:"bgcolor,omitempty" toml:"bgcolor,omitempty" hcl:"bgcolor,optional" validate:"omitempty,dotcolor"`
	PenColor  string    `json:"pencolor,omitempty" yaml:"pencolor,omitempty" toml:"pencolor,omitempty" hcl:"pencolor,optional" validate:"omitempty,dotcolor"`
	FontColor string    `json:"fontcolor,omitempty" yaml:"fontcolor,omitempty" toml:"fontcolor,omitempty" hcl:"fontcolor,optional" validate:"omitempty,dotcolor"`
	FontName  string    `json:"fontname,omitempty" yaml:"fontname,omitempty" toml:"fontname,omitempty" hcl:"fontname,optional" validate:"omitempty,max=128"`
	FontSize  float64   `json:"fontsize,omitempty" yaml:"fontsize,omitempty" toml:"fontsize,omitempty" hcl:"fontsize,optional" validate:"omitempty,gt=0,lte=256"`
	Style     string    `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty" hcl:"style,optional" validate:"omitempty,dotstyle"`
	LabelJust string    `json:"labeljust,omitempty" yaml:"labeljust,omitempty" toml:"labeljust,omitempty" hcl:"labeljust,optional" validate:"omitempty,oneof=l c r"`
	Nodes     NodeAttrs `json:"nodes,omitzero" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
}

// Map returns the DOT attributes of the non-zero fields.
func (a GraphAttrs) Map() map[string]string {
	m := map[string]string{}
	putFloat(m, "fontsize", a.FontSize)
	put(m, "fontname", a.FontName)
	put(m, "fontcolor", a.FontColor)
	put(m, "bgcolor", a.BgColor)
	putFloat(m, "pad", a.Pad)
	putFloat(m, "nodesep", a.NodeSep)
	putFloat(m, "ranksep", a.RankSep)
	put(m, "splines", a.Splines)
	return m
}

// Map returns the DOT attributes of the non-zero fields.
func (a NodeAttrs) Map() map[string]string {
	m := map[string]string{}
	put(m, "shape", a.Shape)
	put(m, "style", a.Style)
	put(m, "fillcolor", a.FillColor)
	put(m, "color", a.Color)
	put(m, "fontcolor", a.FontColor)
	put(m, "fontname", a.FontName)
	putFloat(m, "fontsize", a.FontSize)
	putFloat(m, "width", a.Width)
	putFloat(m, "height", a.Height)
	put(m, "image", a.Image)
	put(m, "labelloc", a.LabelLoc)
	put(m, "tooltip", a.Tooltip)
	putFloat(m, "penwidth", a.PenWidth)
	return m
}

// Map returns the DOT attributes of the non-zero fields. Dir is omitted
// when it is the default forward direction.
func (a EdgeAttrs) Map() map[string]string {
	m := map[string]string{}
	put(m, "label", a.Label)
	put(m, "color", a.Color)
	put(m, "style", a.Style)
	if a.Dir != "forward" {
		put(m, "dir", a.Dir)
	}
	put(m, "fontcolor", a.FontColor)
	putFloat(m, "fontsize", a.FontSize)
	putFloat(m, "penwidth", a.PenWidth)
	if a.MinLen > 0 {
		m["minlen"] = strconv.Itoa(a.MinLen)
	}
	return m
}

// Map returns the DOT graph attributes of the non-zero fields. Node
// defaults are not included.
func (a ClusterAttrs) Map() map[string]string {
	m := map[string]string{}
	put(m, "bgcolor", a.BgColor)
	put(m, "pencolor", a.PenColor)
	put(m, "fontcolor", a.FontColor)
	put(m, "fontname", a.FontName)
	putFloat(m, "fontsize", a.FontSize)
	put(m, "style", a.Style)
	put(m, "labeljust", a.LabelJust)
	return m
}

// Merge returns a with every non-zero field of o applied on top.
func (a GraphAttrs) Merge(o GraphAttrs) GraphAttrs {
	a.FontSize = pickFloat(a.FontSize, o.FontSize)
	a.FontName = pick(a.FontName, o.FontName)
	a.FontColor = pick(a.FontColor, o.FontColor)
	a.BgColor = pick(a.BgColor, o.BgColor)
	a.Pad = pickFloat(a.Pad, o.Pad)
	a.NodeSep = pickFloat(a.NodeSep, o.NodeSep)
	a.RankSep = pickFloat(a.RankSep, o.RankSep)
	a.Splines = pick(a.Splines, o.Splines)
	return a
}

// Merge returns a with every non-zero field of o applied on top.
func (a NodeAttrs) Merge(o NodeAttrs) NodeAttrs {
	a.Shape = pick(a.Shape, o.Shape)
	a.Style = pick(a.Style, o.Style)
	a.FillColor = pick(a.FillColor, o.FillColor)
	a.Color = pick(a.Color, o.Color)
	a.FontColor = pick(a.FontColor, o.FontColor)
	a.FontName = pick(a.FontName, o.FontName)
	a.FontSize = pickFloat(a.FontSize, o.FontSize)
	a.Width = pickFloat(a.Width, o.Width)
	a.Height = pickFloat(a.Height, o.Height)
	a.Image = pick(a.Image, o.Image)
	a.LabelLoc = pick(a.LabelLoc, o.LabelLoc)
	a.Tooltip = pick(a.Tooltip, o.Tooltip)
	a.PenWidth = pickFloat(a.PenWidth, o.PenWidth)
	return a
}

// Merge returns a with every non-zero field of o applied on top.
func (a EdgeAttrs) Merge(o EdgeAttrs) EdgeAttrs {
	a.Label = pick(a.Label, o.Label)
	a.Color = pick(a.Color, o.Color)
	a.Style = pick(a.Style, o.Style)
	a.Dir = pick(a.Dir, o.Dir)
	a.FontColor = pick(a.FontColor, o.FontColor)
	a.FontSize = pickFloat(a.FontSize, o.FontSize)
	a.PenWidth = pickFloat(a.PenWidth, o.PenWidth)
	if o.MinLen != 0 {
		a.MinLen = o.MinLen
	}
	return a
}

// Merge returns a with every non-zero field of o applied on top.
func (a ClusterAttrs) Merge(o ClusterAttrs) ClusterAttrs {
	a.BgColor = pick(a.BgColor, o.BgColor)
	a.PenColor = pick(a.PenColor, o.PenColor)
	a.FontColor = pick(a.FontColor, o.FontColor)
	a.FontName = pick(a.FontName, o.FontName)
	a.FontSize = pickFloat(a.FontSize, o.FontSize)
	a.Style = pick(a.Style, o.Style)
	a.LabelJust = pick(a.LabelJust, o.LabelJust)
	a.Nodes = a.Nodes.Merge(o.Nodes)
	return a
}

// IsZero reports whether no field is set.
func (a NodeAttrs) IsZero() bool { return a == NodeAttrs{} }

// IsZero reports whether no field is set.
func (a EdgeAttrs) IsZero() bool { return a == EdgeAttrs{} }

// ValidateAttrs checks an attribute record and returns an INVALID_ATTRIBUTE
// error naming entity and the first offending field.
func ValidateAttrs(entity string, attrs any) error {
	err := validate.Struct(attrs)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidAttribute, err, "%s", entity)
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), reflect.TypeOf(attrs).Name()+".")
	return errors.New(errors.ErrCodeInvalidAttribute, "%s: attribute %s: %s", entity, field, describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "dotcolor":
		return fmt.Sprintf("%q is not a color (want #RRGGBB, #RRGGBBAA or a color name)", fe.Value())
	case "dotstyle":
		return fmt.Sprintf("%q is not a style list", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q is not one of [%s]", fe.Value(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%v must be %s %s", fe.Value(), map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	case "lte", "max":
		return fmt.Sprintf("value exceeds %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func put(m map[string]string, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func putFloat(m map[string]string, key string, v float64) {
	if v != 0 {
		m[key] = strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func pick(a, b string) string {
	if b != "" {
		return b
	}
	return a
}

func pickFloat(a, b float64) float64 {
	if b != 0 {
		return b
	}
	return a
}
