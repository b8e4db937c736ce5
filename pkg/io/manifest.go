package io

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
)

// Manifest is the declarative form of one diagram: the scope tree and the
// edge list, supplied up front.
type Manifest struct {
	Name      string   `json:"name" yaml:"name" toml:"name"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Filename  string   `json:"filename,omitempty" yaml:"filename,omitempty" toml:"filename,omitempty"`
	Direction string   `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	Curve     string   `json:"curve,omitempty" yaml:"curve,omitempty" toml:"curve,omitempty"`
	Formats   []string `json:"formats,omitempty" yaml:"formats,omitempty" toml:"formats,omitempty"`
	Strict    bool     `json:"strict,omitempty" yaml:"strict,omitempty" toml:"strict,omitempty"`
	AutoLabel bool     `json:"autolabel,omitempty" yaml:"autolabel,omitempty" toml:"autolabel,omitempty"`

	Graph diagram.GraphAttrs `json:"graph,omitzero" yaml:"graph,omitempty" toml:"graph,omitempty"`
	Node  diagram.NodeAttrs  `json:"node,omitzero" yaml:"node,omitempty" toml:"node,omitempty"`
	Edge  diagram.EdgeAttrs  `json:"edge,omitzero" yaml:"edge,omitempty" toml:"edge,omitempty"`

	Nodes    []Node    `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Clusters []Cluster `json:"clusters,omitempty" yaml:"clusters,omitempty" toml:"clusters,omitempty"`
	Edges    []Edge    `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
}

// Node declares one node. Ref names the node in edges and defaults to the
// label; Label defaults to Ref.
type Node struct {
	Ref   string            `json:"ref,omitempty" yaml:"ref,omitempty" toml:"ref,omitempty"`
	Label string            `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Kind  string            `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Attrs diagram.NodeAttrs `json:"attrs,omitzero" yaml:"attrs,omitempty" toml:"attrs,omitempty"`
}

// Cluster declares a cluster. Its nodes are declared before its
// sub-clusters, both in listed order.
type Cluster struct {
	Label    string               `json:"label" yaml:"label" toml:"label"`
	Attrs    diagram.ClusterAttrs `json:"attrs,omitzero" yaml:"attrs,omitempty" toml:"attrs,omitempty"`
	Nodes    []Node               `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Clusters []Cluster            `json:"clusters,omitempty" yaml:"clusters,omitempty" toml:"clusters,omitempty"`
}

// Edge connects every From ref to every To ref.
type Edge struct {
	From Refs `json:"from" yaml:"from" toml:"from"`
	To   Refs `json:"to" yaml:"to" toml:"to"`

	diagram.EdgeAttrs `yaml:",inline"`
}

// Refs is a list of node refs. In every syntax a single string is accepted
// in place of a one-element list.
type Refs []string

func (r *Refs) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*r = Refs{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("refs: want a string or a list of strings")
	}
	*r = many
	return nil
}

func (r *Refs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*r = Refs{one}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return fmt.Errorf("line %d: refs: want a string or a list of strings", value.Line)
	}
	*r = many
	return nil
}

func (r *Refs) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*r = Refs{x}
		return nil
	case []any:
		out := make(Refs, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("refs: want strings, got %T", item)
			}
			out = append(out, s)
		}
		*r = out
		return nil
	}
	return fmt.Errorf("refs: want a string or a list of strings, got %T", v)
}
