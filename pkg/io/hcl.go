package io

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// HCL manifests look like:
//
//	diagram "Web Service" {
//	  direction = "TB"
//	  graph { fontsize = 16 }
//
//	  node "dns" {
//	    label = "Route 53"
//	    kind  = "aws.network.Route53"
//	  }
//	  cluster "VPC" {
//	    attrs { bgcolor = "#E3F2FD" }
//	    node "web" { kind = "aws.compute.EC2" }
//	  }
//	  edge {
//	    from  = ["dns"]
//	    to    = ["web"]
//	    label = "HTTPS"
//	  }
//	}
type hclFile struct {
	Diagram hclDiagram `hcl:"diagram,block"`
}

type hclDiagram struct {
	Name      string   `hcl:"name,label"`
	Title     string   `hcl:"title,optional"`
	Filename  string   `hcl:"filename,optional"`
	Direction string   `hcl:"direction,optional"`
	Curve     string   `hcl:"curve,optional"`
	Formats   []string `hcl:"formats,optional"`
	Strict    bool     `hcl:"strict,optional"`
	AutoLabel bool     `hcl:"autolabel,optional"`

	Graph        *diagram.GraphAttrs `hcl:"graph,block"`
	NodeDefaults *diagram.NodeAttrs  `hcl:"node_defaults,block"`
	EdgeDefaults *diagram.EdgeAttrs  `hcl:"edge_defaults,block"`

	Nodes    []*hclNode    `hcl:"node,block"`
	Clusters []*hclCluster `hcl:"cluster,block"`
	Edges    []*hclEdge    `hcl:"edge,block"`
}

type hclNode struct {
	Ref   string             `hcl:"ref,label"`
	Label string             `hcl:"label,optional"`
	Kind  string             `hcl:"kind,optional"`
	Attrs *diagram.NodeAttrs `hcl:"attrs,block"`
}

type hclCluster struct {
	Label    string           `hcl:"label,label"`
	Attrs    *hclClusterAttrs `hcl:"attrs,block"`
	Nodes    []*hclNode       `hcl:"node,block"`
	Clusters []*hclCluster    `hcl:"cluster,block"`
}

// hclClusterAttrs splits the nodes block off the cluster attributes; the
// remaining body decodes into diagram.ClusterAttrs.
type hclClusterAttrs struct {
	Nodes  *diagram.NodeAttrs `hcl:"nodes,block"`
	Remain hcl.Body           `hcl:",remain"`
}

type hclEdge struct {
	From   []string `hcl:"from"`
	To     []string `hcl:"to"`
	Remain hcl.Body `hcl:",remain"`
}

func decodeHCL(src []byte, name string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, diags, "parse %s", name)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, diags, "decode %s", name)
	}

	d := parsed.Diagram
	m := &Manifest{
		Name:      d.Name,
		Title:     d.Title,
		Filename:  d.Filename,
		Direction: d.Direction,
		Curve:     d.Curve,
		Formats:   d.Formats,
		Strict:    d.Strict,
		AutoLabel: d.AutoLabel,
	}
	if d.Graph != nil {
		m.Graph = *d.Graph
	}
	if d.NodeDefaults != nil {
		m.Node = *d.NodeDefaults
	}
	if d.EdgeDefaults != nil {
		m.Edge = *d.EdgeDefaults
	}
	m.Nodes = convertHCLNodes(d.Nodes)

	var err error
	if m.Clusters, err = convertHCLClusters(d.Clusters, name); err != nil {
		return nil, err
	}
	for _, e := range d.Edges {
		var attrs diagram.EdgeAttrs
		if diags := gohcl.DecodeBody(e.Remain, nil, &attrs); diags.HasErrors() {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, diags, "decode %s edge", name)
		}
		m.Edges = append(m.Edges, Edge{From: e.From, To: e.To, EdgeAttrs: attrs})
	}
	return m, nil
}

func convertHCLNodes(in []*hclNode) []Node {
	var out []Node
	for _, n := range in {
		node := Node{Ref: n.Ref, Label: n.Label, Kind: n.Kind}
		if n.Attrs != nil {
			node.Attrs = *n.Attrs
		}
		out = append(out, node)
	}
	return out
}

func convertHCLClusters(in []*hclCluster, name string) ([]Cluster, error) {
	var out []Cluster
	for _, c := range in {
		cl := Cluster{Label: c.Label, Nodes: convertHCLNodes(c.Nodes)}
		if c.Attrs != nil {
			if diags := gohcl.DecodeBody(c.Attrs.Remain, nil, &cl.Attrs); diags.HasErrors() {
				return nil, errors.Wrap(errors.ErrCodeInvalidManifest, diags, "decode %s cluster %q", name, c.Label)
			}
			if c.Attrs.Nodes != nil {
				cl.Attrs.Nodes = *c.Attrs.Nodes
			}
		}
		subs, err := convertHCLClusters(c.Clusters, name)
		if err != nil {
			return nil, err
		}
		cl.Clusters = subs
		out = append(out, cl)
	}
	return out, nil
}
