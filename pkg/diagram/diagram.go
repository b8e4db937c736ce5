package diagram

import (
	"strconv"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Diagram is the root scope of one rendering session. It owns every node,
// cluster and edge declared between [New] and [Diagram.Close], after which
// it is immutable.
//
// A Diagram is not safe for concurrent use. Independent diagrams may be
// built concurrently.
type Diagram struct {
	name string
	opts Options

	stack     *ContextStack
	children  []Element
	nodes     []*Node
	nodeIndex map[string]*Node
	clusters  []*Cluster
	clusterID map[string]bool
	edges     []*Edge
	edgeIndex map[edgeKey]*Edge
	closed    bool
}

// New opens a diagram. The diagram is the active scope until a cluster is
// opened.
func New(name string, opts ...Option) (*Diagram, error) {
	if err := errors.ValidateLabel(name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "diagram name")
	}
	o, err := buildOptions(name, opts)
	if err != nil {
		return nil, err
	}
	d := &Diagram{
		name:      name,
		opts:      o,
		stack:     NewContextStack(),
		nodeIndex: make(map[string]*Node),
		clusterID: make(map[string]bool),
		edgeIndex: make(map[edgeKey]*Edge),
	}
	d.stack.Push(d)
	return d, nil
}

// Build opens a diagram, runs fn and closes it. The diagram is returned
// closed, ready for serialization.
func Build(name string, fn func(*Diagram) error, opts ...Option) (*Diagram, error) {
	d, err := New(name, opts...)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return d, nil
}

// Name returns the diagram name.
func (d *Diagram) Name() string { return d.name }

// Label returns the diagram name, making the diagram a [Scope].
func (d *Diagram) Label() string { return d.name }

// Options returns the resolved options.
func (d *Diagram) Options() Options { return d.opts }

// Closed reports whether construction has finished.
func (d *Diagram) Closed() bool { return d.closed }

// Children returns the nodes and clusters declared at the top level.
func (d *Diagram) Children() []Element { return d.children }

func (d *Diagram) add(e Element) { d.children = append(d.children, e) }

// Nodes returns every node in registration order.
func (d *Diagram) Nodes() Nodes { return d.nodes }

// Clusters returns every cluster in the order it was opened.
func (d *Diagram) Clusters() []*Cluster { return d.clusters }

// Edges returns every distinct edge in first-declaration order.
func (d *Diagram) Edges() Edges { return d.edges }

// NodeByID looks up a node.
func (d *Diagram) NodeByID(id string) (*Node, bool) {
	n, ok := d.nodeIndex[id]
	return n, ok
}

// Active returns the scope new nodes and clusters attach to, or nil once the
// diagram is closed.
func (d *Diagram) Active() Scope { return d.stack.Top() }

// Path returns the labels of the open scopes, outermost first.
func (d *Diagram) Path() []string { return d.stack.Path() }

// Node creates a node in the active scope.
func (d *Diagram) Node(label, category string, attrs ...NodeAttrs) (*Node, error) {
	if err := d.checkOpen("create node " + quote(label)); err != nil {
		return nil, err
	}
	return d.createNode(d.stack.Top(), label, category, attrs)
}

// OpenCluster opens a cluster inside the active scope and makes it active.
// The caller must call [Cluster.Close]; prefer [Diagram.Cluster].
func (d *Diagram) OpenCluster(label string, attrs ...ClusterAttrs) (*Cluster, error) {
	if err := d.checkOpen("open cluster " + quote(label)); err != nil {
		return nil, err
	}
	if err := errors.ValidateLabel(label); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cluster in %s", quote(d.stack.Top().Label()))
	}
	var merged ClusterAttrs
	for _, a := range attrs {
		merged = merged.Merge(a)
	}
	if err := ValidateAttrs("cluster "+quote(label), merged); err != nil {
		return nil, err
	}

	id := d.opts.IDs.ClusterID()
	if d.clusterID[id] || id == "" {
		return nil, errors.New(errors.ErrCodeInternal, "id generator returned duplicate cluster id %q", id)
	}

	parent := d.stack.Top()
	c := &Cluster{
		id:      id,
		label:   label,
		attrs:   merged,
		depth:   d.stack.Depth() - 1,
		parent:  parent,
		diagram: d,
	}
	d.clusterID[id] = true
	d.clusters = append(d.clusters, c)
	parent.add(c)
	d.stack.Push(c)
	return c, nil
}

// Cluster opens a cluster inside the active scope, runs fn with it and closes
// it on every exit path, including an error or panic in fn. Clusters that fn
// opened and left open are closed too, and reported as a SCOPE_ERROR.
func (d *Diagram) Cluster(label string, fn func(*Cluster) error, attrs ...ClusterAttrs) (err error) {
	c, err := d.OpenCluster(label, attrs...)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := d.unwindTo(c); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return fn(c)
}

// Close finishes construction. Closing twice, or while clusters are still
// open, is a SCOPE_ERROR.
func (d *Diagram) Close() error {
	if d.closed {
		return errors.New(errors.ErrCodeScope, "close diagram %s: already closed", quote(d.name))
	}
	if d.stack.Depth() > 1 {
		return errors.New(errors.ErrCodeScope, "close diagram %s: clusters still open (open: %s)", quote(d.name), d.stack)
	}
	if _, err := d.stack.Pop(); err != nil {
		return err
	}
	d.closed = true
	return nil
}

// unwindTo pops every scope above c and then c itself. It reports a
// SCOPE_ERROR if scopes other than c had to be closed.
func (d *Diagram) unwindTo(c *Cluster) error {
	if c.closed || !d.stack.contains(c) {
		return errors.New(errors.ErrCodeScope, "close cluster %s: already closed", quote(c.label))
	}
	var leaked []string
	for d.stack.Top() != Scope(c) {
		sc, _ := d.stack.Pop()
		if inner, ok := sc.(*Cluster); ok {
			inner.closed = true
			leaked = append(leaked, inner.label)
		}
	}
	_, _ = d.stack.Pop()
	c.closed = true
	if len(leaked) > 0 {
		return errors.New(errors.ErrCodeScope, "cluster %s: inner clusters left open %q", quote(c.label), leaked)
	}
	return nil
}

func (d *Diagram) checkOpen(op string) error {
	if d.closed {
		return errors.New(errors.ErrCodeScope, "%s: diagram %s is closed", op, quote(d.name))
	}
	return nil
}

func quote(s string) string { return strconv.Quote(s) }

func itoa(i int) string { return strconv.Itoa(i) }
