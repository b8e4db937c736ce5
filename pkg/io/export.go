package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
)

// FromDiagram converts a diagram back into a manifest. Node refs are the
// node IDs. Labels are exported as displayed, so AutoLabel is not set again.
//
// A manifest declares a scope's nodes before its sub-clusters, so a diagram
// that interleaves them round-trips with the nodes first.
func FromDiagram(d *diagram.Diagram) *Manifest {
	o := d.Options()
	m := &Manifest{
		Name:      d.Name(),
		Filename:  o.Filename,
		Direction: string(o.Direction),
		Curve:     o.Curve,
		Formats:   o.Formats,
		Strict:    o.Strict,
		Graph:     o.Graph,
		Node:      o.Node,
		Edge:      o.Edge,
	}
	if o.Title != d.Name() {
		m.Title = o.Title
	}
	m.Nodes, m.Clusters = exportChildren(d.Children())
	for _, e := range d.Edges() {
		m.Edges = append(m.Edges, Edge{
			From:      Refs{e.Source().ID()},
			To:        Refs{e.Target().ID()},
			EdgeAttrs: e.Attrs(),
		})
	}
	return m
}

func exportChildren(children []diagram.Element) ([]Node, []Cluster) {
	var nodes []Node
	var clusters []Cluster
	for _, child := range children {
		switch el := child.(type) {
		case *diagram.Node:
			nodes = append(nodes, Node{Ref: el.ID(), Label: el.Label(), Kind: el.Category(), Attrs: el.Attrs()})
		case *diagram.Cluster:
			c := Cluster{Label: el.Label(), Attrs: el.Attrs()}
			c.Nodes, c.Clusters = exportChildren(el.Children())
			clusters = append(clusters, c)
		}
	}
	return nodes, clusters
}

// WriteJSON encodes a diagram as a JSON manifest and writes it to w.
// The output can be read back with [Decode] and rebuilt with [Build].
func WriteJSON(d *diagram.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDiagram(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes a diagram as a YAML manifest and writes it to w.
func WriteYAML(d *diagram.Diagram, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromDiagram(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes a diagram to a JSON manifest file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d *diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
