// Package dot serializes diagrams to Graphviz DOT.
//
// # Overview
//
// [ToDOT] walks a closed [diagram.Diagram] depth-first. Each cluster becomes
// a nested "cluster_<id>" subgraph holding its nodes and sub-clusters in
// declaration order; the flat edge list follows the tree and references node
// identifiers, never labels.
//
//	d, _ := diagram.Build("Web Service", build)
//	src, err := dot.ToDOT(d)
//
// # Output
//
// Every attribute list is sorted by key and every value is quoted, so equal
// declarations give byte-identical text suitable for golden files. The
// top-level graph, node and edge statements carry the diagram defaults;
// cluster blocks carry their own style and optional node defaults; node
// statements carry only what the node overrides.
//
// Rendering the text is the job of [github.com/matzehuels/stackdiagram/pkg/render].
//
// [diagram.Diagram]: github.com/matzehuels/stackdiagram/pkg/diagram.Diagram
package dot
