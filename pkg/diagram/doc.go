// Package diagram is the graph model and scoped-construction protocol for
// architecture diagrams.
//
// # Overview
//
// A [Diagram] is built in one top-down pass: nodes are declared inside
// nested clusters, then connected by directed, styled edges. The package
// keeps the invariants that make the result serializable and reproducible:
//
//   - node and cluster identifiers are unique within a diagram and never
//     derived from labels
//   - a node or cluster becomes a child of the scope that was active when it
//     was declared
//   - connecting M sources to N targets yields M*N edges, ordered by source
//     then target
//   - the same declarations always produce the same model
//
// # Scopes
//
// Every diagram owns a [ContextStack]. The diagram sits at the bottom;
// opening a cluster pushes it and closing it pops it. The scoped form closes
// the cluster on every exit path:
//
//	d, _ := diagram.New("Web Service", diagram.WithDirection(diagram.TopToBottom))
//	err := d.Cluster("VPC", func(c *diagram.Cluster) error {
//	    lb, _ := c.Node("ELB", "aws.network.ELB")
//	    ...
//	})
//
// Closing a scope that is not on top of the stack, or closing one twice, is
// a SCOPE_ERROR and leaves the diagram untouched.
//
// # Edges
//
// [Diagram.Connect] accepts any [Endpoint]: a single [*Node], a [Nodes]
// group or the [Edges] of an earlier declaration, which stand for their
// target nodes. [Diagram.Chain] replaces operator chaining:
//
//	web := diagram.Group(w1, w2, w3)
//	d.Chain(diagram.EdgeAttrs{}, lb, web, db)
//
// Declaring an existing (source, target) pair again replaces its attributes
// in place; the edge keeps its original position.
//
// # Attributes
//
// Graph, node, edge and cluster attributes are closed records
// ([GraphAttrs], [NodeAttrs], [EdgeAttrs], [ClusterAttrs]) validated when the
// declaration is made. Zero fields inherit the defaults of the enclosing
// scope. An invalid value is an INVALID_ATTRIBUTE error.
//
// Serialization lives in [github.com/matzehuels/stackdiagram/pkg/render/dot].
package diagram
