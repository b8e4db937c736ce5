package io

import (
	"strings"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Options returns the diagram options declared by the manifest.
func (m *Manifest) Options() []diagram.Option {
	var opts []diagram.Option
	if m.Title != "" {
		opts = append(opts, diagram.WithTitle(m.Title))
	}
	if m.Filename != "" {
		opts = append(opts, diagram.WithFilename(m.Filename))
	}
	if m.Direction != "" {
		opts = append(opts, diagram.WithDirection(diagram.Direction(strings.ToUpper(m.Direction))))
	}
	if m.Curve != "" {
		opts = append(opts, diagram.WithCurve(m.Curve))
	}
	if len(m.Formats) > 0 {
		opts = append(opts, diagram.WithFormats(m.Formats...))
	}
	opts = append(opts,
		diagram.WithStrict(m.Strict),
		diagram.WithAutoLabel(m.AutoLabel),
		diagram.WithGraphAttrs(m.Graph),
		diagram.WithNodeAttrs(m.Node),
		diagram.WithEdgeAttrs(m.Edge),
	)
	return opts
}

// Build runs the construction protocol for the manifest and returns the
// closed diagram. opts are applied after the manifest's own options.
//
// Unknown refs in edges are REFERENCE_ERRORs; a missing name, a node with
// neither ref nor label, duplicate refs and a filename that escapes the
// output directory are INVALID_MANIFEST.
func Build(m *Manifest, opts ...diagram.Option) (*diagram.Diagram, error) {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest has no name")
	}
	if m.Filename != "" {
		if err := errors.ValidatePath(m.Filename); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "manifest %q filename", m.Name)
		}
	}

	b := &builder{refs: map[string]*diagram.Node{}}
	return diagram.Build(m.Name, func(d *diagram.Diagram) error {
		if err := b.declare(d.Node, d.Cluster, m.Nodes, m.Clusters); err != nil {
			return err
		}
		for i, e := range m.Edges {
			src, err := b.group(i, "from", e.From)
			if err != nil {
				return err
			}
			dst, err := b.group(i, "to", e.To)
			if err != nil {
				return err
			}
			if _, err := d.Connect(src, dst, e.EdgeAttrs); err != nil {
				return err
			}
		}
		return nil
	}, append(m.Options(), opts...)...)
}

type builder struct {
	refs map[string]*diagram.Node
}

type nodeFunc func(label, category string, attrs ...diagram.NodeAttrs) (*diagram.Node, error)

type clusterFunc func(label string, fn func(*diagram.Cluster) error, attrs ...diagram.ClusterAttrs) error

// declare creates nodes, then sub-clusters, in the scope behind node and
// cluster.
func (b *builder) declare(node nodeFunc, cluster clusterFunc, nodes []Node, clusters []Cluster) error {
	for _, n := range nodes {
		ref, label := n.Ref, n.Label
		if ref == "" {
			ref = label
		}
		if label == "" {
			label = ref
		}
		if ref == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "node of kind %q has neither ref nor label", n.Kind)
		}
		if _, dup := b.refs[ref]; dup {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate node ref %q", ref)
		}
		created, err := node(label, n.Kind, n.Attrs)
		if err != nil {
			return err
		}
		b.refs[ref] = created
	}
	for _, c := range clusters {
		err := cluster(c.Label, func(sc *diagram.Cluster) error {
			return b.declare(sc.Node, sc.Cluster, c.Nodes, c.Clusters)
		}, c.Attrs)
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) group(i int, side string, refs Refs) (diagram.Nodes, error) {
	if len(refs) == 0 {
		return nil, errors.New(errors.ErrCodeReference, "edge %d: %s is empty", i, side)
	}
	ns := make(diagram.Nodes, 0, len(refs))
	for _, ref := range refs {
		n, ok := b.refs[ref]
		if !ok {
			return nil, errors.New(errors.ErrCodeReference, "edge %d: %s references unknown node %q", i, side, ref)
		}
		ns = append(ns, n)
	}
	return ns, nil
}
