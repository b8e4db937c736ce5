package diagram

import (
	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// Endpoint is one side of a connect declaration: a [*Node], a [Nodes] group
// or the [Edges] returned by an earlier declaration.
type Endpoint interface {
	Members() []*Node
}

// Edge is a directed connection between two nodes of the same diagram.
type Edge struct {
	source *Node
	target *Node
	attrs  EdgeAttrs
}

// Source returns the tail node.
func (e *Edge) Source() *Node { return e.source }

// Target returns the head node.
func (e *Edge) Target() *Node { return e.target }

// Attrs returns the attributes of the latest declaration of this edge.
func (e *Edge) Attrs() EdgeAttrs { return e.attrs }

func (e *Edge) String() string {
	return e.source.id + " -> " + e.target.id
}

// Edges are the handles returned by [Diagram.Connect]. As an [Endpoint] they
// stand for their target nodes.
type Edges []*Edge

// Members returns the distinct target nodes, in first-seen order.
func (es Edges) Members() []*Node {
	seen := make(map[*Node]bool, len(es))
	var ns []*Node
	for _, e := range es {
		if !seen[e.target] {
			seen[e.target] = true
			ns = append(ns, e.target)
		}
	}
	return ns
}

// Sources returns the distinct source nodes, in first-seen order.
func (es Edges) Sources() Nodes {
	seen := make(map[*Node]bool, len(es))
	var ns Nodes
	for _, e := range es {
		if !seen[e.source] {
			seen[e.source] = true
			ns = append(ns, e.source)
		}
	}
	return ns
}

type edgeKey struct {
	source, target string
}

// Connect declares an edge from every source to every target. With M sources
// and N targets it returns M*N handles, ordered by source and then target.
// attrs apply to every produced edge.
//
// If an identical (source, target) pair was declared before, that edge keeps
// its position in the output and takes attrs. Empty endpoint sets and nodes
// that do not belong to this diagram are a REFERENCE_ERROR; in that case no
// edge is added or changed.
func (d *Diagram) Connect(sources, targets Endpoint, attrs EdgeAttrs) (Edges, error) {
	if err := d.checkOpen("connect"); err != nil {
		return nil, err
	}
	src, err := d.resolve("source", sources)
	if err != nil {
		return nil, err
	}
	dst, err := d.resolve("target", targets)
	if err != nil {
		return nil, err
	}
	if err := ValidateAttrs(edgeEntity(src, dst), attrs); err != nil {
		return nil, err
	}

	out := make(Edges, 0, len(src)*len(dst))
	for _, s := range src {
		for _, t := range dst {
			key := edgeKey{s.id, t.id}
			if e, ok := d.edgeIndex[key]; ok {
				e.attrs = attrs
				out = append(out, e)
				continue
			}
			e := &Edge{source: s, target: t, attrs: attrs}
			d.edgeIndex[key] = e
			d.edges = append(d.edges, e)
			out = append(out, e)
		}
	}
	return out, nil
}

// Chain connects each hop to the next with the same attributes, like
// a >> b >> c. It returns the edges of the last hop.
func (d *Diagram) Chain(attrs EdgeAttrs, hops ...Endpoint) (Edges, error) {
	if len(hops) < 2 {
		return nil, errors.New(errors.ErrCodeReference, "chain: need at least two endpoints, got %d", len(hops))
	}
	// Resolve every hop up front so a bad hop adds nothing.
	for i, h := range hops {
		if _, err := d.resolve("hop "+itoa(i), h); err != nil {
			return nil, err
		}
	}
	var last Edges
	for i := 0; i+1 < len(hops); i++ {
		es, err := d.Connect(hops[i], hops[i+1], attrs)
		if err != nil {
			return nil, err
		}
		last = es
	}
	return last, nil
}

func (d *Diagram) resolve(side string, ep Endpoint) ([]*Node, error) {
	if ep == nil {
		return nil, errors.New(errors.ErrCodeReference, "connect: %s is empty", side)
	}
	ns := ep.Members()
	if len(ns) == 0 {
		return nil, errors.New(errors.ErrCodeReference, "connect: %s is empty", side)
	}
	for _, n := range ns {
		if n == nil {
			return nil, errors.New(errors.ErrCodeReference, "connect: %s contains a nil node", side)
		}
		if n.diagram != d || d.nodeIndex[n.id] != n {
			return nil, errors.New(errors.ErrCodeReference, "connect: %s node %s is not registered in diagram %s", side, n, quote(d.name))
		}
	}
	return ns, nil
}

func edgeEntity(src, dst []*Node) string {
	if len(src) == 1 && len(dst) == 1 {
		return "edge " + src[0].id + " -> " + dst[0].id
	}
	return "edges " + src[0].id + ".. -> " + dst[0].id + ".."
}
