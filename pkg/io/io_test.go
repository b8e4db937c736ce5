package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdiagram/pkg/diagram"
	"github.com/matzehuels/stackdiagram/pkg/errors"
	"github.com/matzehuels/stackdiagram/pkg/render/dot"
)

const webYAML = `name: Web
direction: tb
graph:
  fontsize: 16
nodes:
  - ref: dns
    label: Route 53
    kind: aws.network.Route53
clusters:
  - label: Services
    attrs:
      bgcolor: "#E3F2FD"
      nodes:
        shape: box
    nodes:
      - ref: web1
        kind: aws.compute.ECS
      - ref: web2
        kind: aws.compute.ECS
    clusters:
      - label: Data
        nodes:
          - ref: db
            kind: aws.database.RDS
edges:
  - from: dns
    to: [web1, web2]
    label: HTTPS
  - from: [web1, web2]
    to: db
    style: dashed
`

const webJSON = `{
  "name": "Web",
  "direction": "tb",
  "graph": {"fontsize": 16},
  "nodes": [{"ref": "dns", "label": "Route 53", "kind": "aws.network.Route53"}],
  "clusters": [{
    "label": "Services",
    "attrs": {"bgcolor": "#E3F2FD", "nodes": {"shape": "box"}},
    "nodes": [
      {"ref": "web1", "kind": "aws.compute.ECS"},
      {"ref": "web2", "kind": "aws.compute.ECS"}
    ],
    "clusters": [{"label": "Data", "nodes": [{"ref": "db", "kind": "aws.database.RDS"}]}]
  }],
  "edges": [
    {"from": "dns", "to": ["web1", "web2"], "label": "HTTPS"},
    {"from": ["web1", "web2"], "to": "db", "style": "dashed"}
  ]
}`

const webTOML = `name = "Web"
direction = "tb"

[graph]
fontsize = 16.0

[[nodes]]
ref = "dns"
label = "Route 53"
kind = "aws.network.Route53"

[[clusters]]
label = "Services"

[clusters.attrs]
bgcolor = "#E3F2FD"

[clusters.attrs.nodes]
shape = "box"

[[clusters.nodes]]
ref = "web1"
kind = "aws.compute.ECS"

[[clusters.nodes]]
ref = "web2"
kind = "aws.compute.ECS"

[[clusters.clusters]]
label = "Data"

[[clusters.clusters.nodes]]
ref = "db"
kind = "aws.database.RDS"

[[edges]]
from = "dns"
to = ["web1", "web2"]
label = "HTTPS"

[[edges]]
from = ["web1", "web2"]
to = "db"
style = "dashed"
`

const webHCL = `diagram "Web" {
  direction = "tb"

  graph {
    fontsize = 16
  }

  node "dns" {
    label = "Route 53"
    kind  = "aws.network.Route53"
  }

  cluster "Services" {
    attrs {
      bgcolor = "#E3F2FD"
      nodes {
        shape = "box"
      }
    }

    node "web1" {
      kind = "aws.compute.ECS"
    }
    node "web2" {
      kind = "aws.compute.ECS"
    }

    cluster "Data" {
      node "db" {
        kind = "aws.database.RDS"
      }
    }
  }

  edge {
    from  = ["dns"]
    to    = ["web1", "web2"]
    label = "HTTPS"
  }

  edge {
    from  = ["web1", "web2"]
    to    = ["db"]
    style = "dashed"
  }
}
`

func buildDOT(t *testing.T, m *Manifest) string {
	t.Helper()
	d, err := Build(m)
	require.NoError(t, err)
	out, err := dot.ToDOT(d)
	require.NoError(t, err)
	return out
}

func TestDecodeAllSyntaxes(t *testing.T) {
	sources := map[Syntax]string{
		SyntaxYAML: webYAML,
		SyntaxJSON: webJSON,
		SyntaxTOML: webTOML,
		SyntaxHCL:  webHCL,
	}

	var reference string
	for _, syntax := range []Syntax{SyntaxYAML, SyntaxJSON, SyntaxTOML, SyntaxHCL} {
		t.Run(string(syntax), func(t *testing.T) {
			m, err := Decode(strings.NewReader(sources[syntax]), syntax, "web."+string(syntax))
			require.NoError(t, err)

			assert.Equal(t, "Web", m.Name)
			assert.Equal(t, 16.0, m.Graph.FontSize)
			require.Len(t, m.Clusters, 1)
			assert.Equal(t, "#E3F2FD", m.Clusters[0].Attrs.BgColor)
			assert.Equal(t, "box", m.Clusters[0].Attrs.Nodes.Shape)
			require.Len(t, m.Edges, 2)
			assert.Equal(t, Refs{"dns"}, m.Edges[0].From)
			assert.Equal(t, Refs{"web1", "web2"}, m.Edges[0].To)
			assert.Equal(t, "dashed", m.Edges[1].Style)

			got := buildDOT(t, m)
			if reference == "" {
				reference = got
				return
			}
			assert.Equal(t, reference, got)
		})
	}

	assert.Contains(t, reference, `rankdir="TB"`)
	assert.Contains(t, reference, `"n1" -> "n2" [label="HTTPS"];`)
	assert.Contains(t, reference, `"n3" -> "n4" [style="dashed"];`)
	assert.Contains(t, reference, `subgraph "cluster_c2"`)
}

func TestBuildStructure(t *testing.T) {
	m, err := Decode(strings.NewReader(webYAML), SyntaxYAML, "web.yaml")
	require.NoError(t, err)
	d, err := Build(m, diagram.WithFormats("svg"))
	require.NoError(t, err)

	assert.True(t, d.Closed())
	assert.Equal(t, []string{"svg"}, d.Options().Formats)
	assert.Equal(t, diagram.TopToBottom, d.Options().Direction)

	clusters := d.Clusters()
	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"web1", "web2"}, labels(clusters[0].Nodes()))
	assert.Equal(t, []string{"db"}, labels(clusters[1].Nodes()))
	assert.Equal(t, "Route 53", d.Nodes()[0].Label())
	assert.Len(t, d.Edges(), 4)
}

func labels(ns diagram.Nodes) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Label()
	}
	return out
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"no name", "nodes: [{ref: a}]", errors.ErrCodeInvalidManifest},
		{"duplicate ref", "name: x\nnodes: [{ref: a}, {ref: a}]", errors.ErrCodeInvalidManifest},
		{"duplicate across clusters", "name: x\nnodes: [{ref: a}]\nclusters: [{label: c, nodes: [{ref: a}]}]", errors.ErrCodeInvalidManifest},
		{"anonymous node", "name: x\nnodes: [{kind: aws.compute.EC2}]", errors.ErrCodeInvalidManifest},
		{"unknown ref", "name: x\nnodes: [{ref: a}]\nedges: [{from: a, to: b}]", errors.ErrCodeReference},
		{"empty to", "name: x\nnodes: [{ref: a}]\nedges: [{from: a, to: []}]", errors.ErrCodeReference},
		{"bad attr", "name: x\nnodes: [{ref: a, attrs: {fillcolor: '#1'}}]", errors.ErrCodeInvalidAttribute},
		{"bad direction", "name: x\ndirection: up", errors.ErrCodeInvalidAttribute},
		{"absolute filename", "name: x\nfilename: /etc/x", errors.ErrCodeInvalidManifest},
		{"escaping filename", "name: x\nfilename: ../x", errors.ErrCodeInvalidManifest},
		{"bad edge style", "name: x\nnodes: [{ref: a}]\nedges: [{from: a, to: a, style: wavy}]", errors.ErrCodeInvalidAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(strings.NewReader(tt.src), SyntaxYAML, "test.yaml")
			require.NoError(t, err)
			_, err = Build(m)
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		syntax Syntax
		src    string
	}{
		{"yaml unknown key", SyntaxYAML, "name: x\ncolour: red"},
		{"yaml bad refs", SyntaxYAML, "name: x\nedges: [{from: {a: b}, to: c}]"},
		{"json unknown key", SyntaxJSON, `{"name": "x", "colour": "red"}`},
		{"json syntax", SyntaxJSON, `{"name": `},
		{"toml unknown key", SyntaxTOML, "name = \"x\"\ncolour = \"red\""},
		{"hcl no diagram", SyntaxHCL, `node "a" {}`},
		{"hcl syntax", SyntaxHCL, `diagram "x" {`},
		{"hcl unknown edge attr", SyntaxHCL, "diagram \"x\" {\n  edge {\n    from = [\"a\"]\n    to = [\"a\"]\n    colour = \"red\"\n  }\n}"},
		{"unknown syntax", Syntax("xml"), "<diagram/>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), tt.syntax, "test")
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidManifest), "got %v", err)
		})
	}
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web.yaml"), []byte(webYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web.hcl"), []byte(webHCL), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.yaml"), []byte("x"), 0o644))

	found, err := FindManifests(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "web.hcl"), filepath.Join(dir, "web.yaml")}, found)

	m, err := Load(filepath.Join(dir, "web.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "Web", m.Name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	_, err = Load(filepath.Join(dir, "notes.txt"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidManifest), "got %v", err)
}

func TestParseSyntax(t *testing.T) {
	for in, want := range map[string]Syntax{"yaml": SyntaxYAML, ".yml": SyntaxYAML, "JSON": SyntaxJSON, "toml": SyntaxTOML, ".hcl": SyntaxHCL} {
		got, err := ParseSyntax(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSyntax("xml")
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	m, err := Decode(strings.NewReader(webYAML), SyntaxYAML, "web.yaml")
	require.NoError(t, err)
	d, err := Build(m)
	require.NoError(t, err)
	want, err := dot.ToDOT(d)
	require.NoError(t, err)

	var js bytes.Buffer
	require.NoError(t, WriteJSON(d, &js))
	fromJSON, err := Decode(&js, SyntaxJSON, "export.json")
	require.NoError(t, err)
	assert.Equal(t, want, buildDOT(t, fromJSON))

	var ys bytes.Buffer
	require.NoError(t, WriteYAML(d, &ys))
	fromYAML, err := Decode(&ys, SyntaxYAML, "export.yaml")
	require.NoError(t, err)
	assert.Equal(t, want, buildDOT(t, fromYAML))

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, ExportJSON(d, path))
	fromFile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "web", fromFile.Filename)
	assert.Len(t, fromFile.Edges, 4)
}
