package dot

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/errors"
)

const (
	defaultFont      = "Sans-Serif"
	defaultFontColor = "#2D3436"

	// iconHeight is the height of a node carrying an image; every extra
	// label line adds iconLinePadding so the label clears the icon.
	iconHeight      = 1.9
	iconLinePadding = 0.4
)

// clusterColors cycle by cluster depth.
var clusterColors = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

// ToDOT serializes a closed diagram to Graphviz DOT. The output is
// byte-identical for identical declaration sequences.
func ToDOT(d *diagram.Diagram) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write serializes a closed diagram to w. Serializing a diagram that is
// still open is a SCOPE_ERROR.
func Write(w io.Writer, d *diagram.Diagram) error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidInput, "serialize: nil diagram")
	}
	if !d.Closed() {
		return errors.New(errors.ErrCodeScope, "serialize diagram %q: still open (open: %s)", d.Name(), strings.Join(d.Path(), " > "))
	}

	var buf bytes.Buffer
	o := d.Options()

	if o.Strict {
		buf.WriteString("strict ")
	}
	fmt.Fprintf(&buf, "digraph %s {\n", quote(o.Title))
	writeStmt(&buf, 1, "graph", GraphDefaults(o))
	writeStmt(&buf, 1, "node", NodeDefaults(o))
	writeStmt(&buf, 1, "edge", EdgeDefaults(o))

	if children := d.Children(); len(children) > 0 {
		buf.WriteString("\n")
		writeChildren(&buf, 1, children)
	}

	if edges := d.Edges(); len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			fmt.Fprintf(&buf, "  %s -> %s%s;\n", quote(e.Source().ID()), quote(e.Target().ID()), fmtAttrs(e.Attrs().Map()))
		}
	}
	buf.WriteString("}\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "write DOT for diagram %q", d.Name())
	}
	return nil
}

// GraphDefaults returns the top-level graph attributes: the classic look,
// the diagram's direction and curve, then its graph overrides.
func GraphDefaults(o diagram.Options) map[string]string {
	m := map[string]string{
		"label":     o.Title,
		"rankdir":   string(o.Direction),
		"splines":   o.Curve,
		"pad":       "2",
		"nodesep":   "0.6",
		"ranksep":   "0.75",
		"fontname":  defaultFont,
		"fontsize":  "15",
		"fontcolor": defaultFontColor,
	}
	maps.Copy(m, o.Graph.Map())
	return m
}

// NodeDefaults returns the node attributes every node inherits.
func NodeDefaults(o diagram.Options) map[string]string {
	m := map[string]string{
		"shape":      "box",
		"style":      "rounded",
		"fixedsize":  "true",
		"width":      "1.4",
		"height":     "1.4",
		"labelloc":   "b",
		"imagescale": "true",
		"fontname":   defaultFont,
		"fontsize":   "13",
		"fontcolor":  defaultFontColor,
	}
	maps.Copy(m, o.Node.Map())
	return m
}

// EdgeDefaults returns the edge attributes every edge inherits.
func EdgeDefaults(o diagram.Options) map[string]string {
	m := map[string]string{
		"color": "#7B8894",
	}
	maps.Copy(m, o.Edge.Map())
	return m
}

// ClusterAttrs returns the graph attributes of a cluster block.
func ClusterAttrs(c *diagram.Cluster) map[string]string {
	m := map[string]string{
		"label":     c.Label(),
		"shape":     "box",
		"style":     "rounded",
		"labeljust": "l",
		"pencolor":  "#AEB6BF",
		"fontname":  defaultFont,
		"fontsize":  "12",
		"bgcolor":   clusterColors[c.Depth()%len(clusterColors)],
	}
	maps.Copy(m, c.Attrs().Map())
	return m
}

// NodeAttrs returns the attributes written on a node statement: its label,
// its category as class, and only what the node overrides.
func NodeAttrs(n *diagram.Node) map[string]string {
	m := map[string]string{"label": n.Label()}
	if n.Category() != "" {
		m["class"] = n.Category()
	}
	a := n.Attrs()
	if a.Image != "" {
		m["shape"] = "none"
		lines := strings.Count(n.Label(), "\n")
		m["height"] = strconv.FormatFloat(iconHeight+iconLinePadding*float64(lines), 'f', -1, 64)
	}
	maps.Copy(m, a.Map())
	return m
}

func writeChildren(buf *bytes.Buffer, depth int, children []diagram.Element) {
	indent := strings.Repeat("  ", depth)
	for _, child := range children {
		switch el := child.(type) {
		case *diagram.Node:
			fmt.Fprintf(buf, "%s%s%s;\n", indent, quote(el.ID()), fmtAttrs(NodeAttrs(el)))
		case *diagram.Cluster:
			fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, quote("cluster_"+el.ID()))
			writeStmt(buf, depth+1, "graph", ClusterAttrs(el))
			if nodes := el.Attrs().Nodes; !nodes.IsZero() {
				writeStmt(buf, depth+1, "node", nodes.Map())
			}
			writeChildren(buf, depth+1, el.Children())
			fmt.Fprintf(buf, "%s}\n", indent)
		}
	}
}

func writeStmt(buf *bytes.Buffer, depth int, kind string, attrs map[string]string) {
	fmt.Fprintf(buf, "%s%s%s;\n", strings.Repeat("  ", depth), kind, fmtAttrs(attrs))
}

// fmtAttrs renders an attribute list sorted by key, or nothing when empty.
func fmtAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

// quote wraps s as a DOT string. Quotes are escaped and real line breaks
// become \n. A backslash followed by one of Graphviz's label escape letters
// (\l, \r, \n, \N, \G, ...) reaches Graphviz unchanged; every other
// backslash is doubled and renders literally.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			if i+1 < len(s) && strings.IndexByte(labelEscapes, s[i+1]) >= 0 {
				b.WriteByte('\\')
				b.WriteByte(s[i+1])
				i++
				continue
			}
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// labelEscapes are the letters Graphviz interprets after a backslash in
// labels.
const labelEscapes = "nlrNGETHL"
