package diagram

import (
	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Cluster is a nested, labeled scope grouping nodes and sub-clusters.
// Its children can only be added while it is the active scope.
type Cluster struct {
	id       string
	label    string
	attrs    ClusterAttrs
	depth    int
	parent   Scope
	diagram  *Diagram
	children []Element
	closed   bool
}

// ID returns the diagram-unique identifier.
func (c *Cluster) ID() string { return c.id }

// Label returns the display label.
func (c *Cluster) Label() string { return c.label }

// Attrs returns the attributes given when the cluster was opened.
func (c *Cluster) Attrs() ClusterAttrs { return c.attrs }

// Depth returns the nesting level; clusters declared directly in the diagram
// have depth 0.
func (c *Cluster) Depth() int { return c.depth }

// Parent returns the enclosing scope.
func (c *Cluster) Parent() Scope { return c.parent }

// Closed reports whether the cluster has been closed.
func (c *Cluster) Closed() bool { return c.closed }

// Children returns the nodes and clusters declared directly inside the
// cluster, in declaration order.
func (c *Cluster) Children() []Element { return c.children }

func (c *Cluster) add(e Element) { c.children = append(c.children, e) }

// Nodes returns the nodes declared directly inside the cluster.
func (c *Cluster) Nodes() Nodes {
	var ns Nodes
	for _, e := range c.children {
		if n, ok := e.(*Node); ok {
			ns = append(ns, n)
		}
	}
	return ns
}

// Clusters returns the clusters declared directly inside the cluster.
func (c *Cluster) Clusters() []*Cluster {
	var cs []*Cluster
	for _, e := range c.children {
		if sub, ok := e.(*Cluster); ok {
			cs = append(cs, sub)
		}
	}
	return cs
}

// Node creates a node inside the cluster, which must be the active scope.
func (c *Cluster) Node(label, category string, attrs ...NodeAttrs) (*Node, error) {
	if err := c.checkActive("create node " + quote(label)); err != nil {
		return nil, err
	}
	return c.diagram.createNode(c, label, category, attrs)
}

// Cluster opens a sub-cluster, runs fn with it and closes it on every exit
// path. c must be the active scope.
func (c *Cluster) Cluster(label string, fn func(*Cluster) error, attrs ...ClusterAttrs) error {
	if err := c.checkActive("open cluster " + quote(label)); err != nil {
		return err
	}
	return c.diagram.Cluster(label, fn, attrs...)
}

// OpenCluster opens a sub-cluster that the caller must Close. c must be the
// active scope.
func (c *Cluster) OpenCluster(label string, attrs ...ClusterAttrs) (*Cluster, error) {
	if err := c.checkActive("open cluster " + quote(label)); err != nil {
		return nil, err
	}
	return c.diagram.OpenCluster(label, attrs...)
}

// Close ends the cluster's scope. Closing a cluster that is already closed or
// is not the active scope is a SCOPE_ERROR and changes nothing.
func (c *Cluster) Close() error {
	if c.closed {
		return errors.New(errors.ErrCodeScope, "close cluster %s: already closed", quote(c.label))
	}
	if top := c.diagram.stack.Top(); top != Scope(c) {
		return errors.New(errors.ErrCodeScope, "close cluster %s: not the active scope (open: %s)", quote(c.label), c.diagram.stack)
	}
	if _, err := c.diagram.stack.Pop(); err != nil {
		return err
	}
	c.closed = true
	return nil
}

func (c *Cluster) checkActive(op string) error {
	if err := c.diagram.checkOpen(op); err != nil {
		return err
	}
	if c.closed {
		return errors.New(errors.ErrCodeScope, "%s in cluster %s: cluster is closed", op, quote(c.label))
	}
	if c.diagram.stack.Top() != Scope(c) {
		return errors.New(errors.ErrCodeScope, "%s in cluster %s: not the active scope (open: %s)", op, quote(c.label), c.diagram.stack)
	}
	return nil
}
