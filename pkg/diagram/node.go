package diagram

import (
	"strings"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Node is a labeled vertex representing one component of the architecture.
// Nodes are created by [Diagram.Node] or [Cluster.Node] and never change
// afterwards.
type Node struct {
	id       string
	label    string
	category string
	attrs    NodeAttrs
	scope    Scope
	diagram  *Diagram
}

// ID returns the diagram-unique identifier.
func (n *Node) ID() string { return n.id }

// Label returns the display label.
func (n *Node) Label() string { return n.label }

// Category returns the node type tag, e.g. "aws.compute.Lambda".
func (n *Node) Category() string { return n.category }

// Attrs returns the node's own attribute overrides.
func (n *Node) Attrs() NodeAttrs { return n.attrs }

// Scope returns the diagram or cluster the node was declared in.
func (n *Node) Scope() Scope { return n.scope }

// Members returns the node itself, making a single node an [Endpoint].
func (n *Node) Members() []*Node { return []*Node{n} }

func (n *Node) String() string {
	return n.id + " " + quote(n.label)
}

// Nodes is an ordered group of nodes usable as one [Endpoint].
type Nodes []*Node

// Group builds a node group from individual nodes.
func Group(nodes ...*Node) Nodes { return Nodes(nodes) }

// Members returns the nodes of the group in order.
func (ns Nodes) Members() []*Node { return ns }

// IDs returns the identifiers of the group, in order.
func (ns Nodes) IDs() []string {
	ids := make([]string, len(ns))
	for i, n := range ns {
		ids[i] = n.id
	}
	return ids
}

// TypeName returns the last dot-separated segment of a category.
func TypeName(category string) string {
	if i := strings.LastIndexByte(category, '.'); i >= 0 {
		return category[i+1:]
	}
	return category
}

func (d *Diagram) createNode(scope Scope, label, category string, attrs []NodeAttrs) (*Node, error) {
	if err := d.checkOpen("create node " + quote(label)); err != nil {
		return nil, err
	}
	if err := errors.ValidateLabel(label); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node in %s", quote(scope.Label()))
	}

	var merged NodeAttrs
	for _, a := range attrs {
		merged = merged.Merge(a)
	}
	if err := ValidateAttrs("node "+quote(label), merged); err != nil {
		return nil, err
	}

	id := d.opts.IDs.NodeID()
	if _, dup := d.nodeIndex[id]; dup || id == "" {
		return nil, errors.New(errors.ErrCodeInternal, "id generator returned duplicate node id %q", id)
	}

	if d.opts.AutoLabel && category != "" {
		label = TypeName(category) + "\n" + label
	}

	n := &Node{
		id:       id,
		label:    label,
		category: category,
		attrs:    merged,
		scope:    scope,
		diagram:  d,
	}
	d.nodeIndex[id] = n
	d.nodes = append(d.nodes, n)
	scope.add(n)
	return n, nil
}
