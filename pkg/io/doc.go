// Package io reads and writes declarative diagram manifests.
//
// # Overview
//
// A manifest is a diagram supplied up front instead of through construction
// calls: the scope tree (nodes and nested clusters) plus a flat edge list.
// It can be written as YAML, JSON, TOML or HCL:
//
//	name: Clustered Web Services
//	direction: TB
//	nodes:
//	  - {ref: dns, label: Route 53, kind: aws.network.Route53}
//	clusters:
//	  - label: Services
//	    attrs: {bgcolor: "#E3F2FD"}
//	    nodes:
//	      - {ref: web1, kind: aws.compute.ECS}
//	      - {ref: web2, kind: aws.compute.ECS}
//	edges:
//	  - {from: dns, to: [web1, web2], label: HTTPS}
//
// # Node Fields
//
//   - ref: name used by edges (defaults to the label, must be unique)
//   - label: display text (defaults to the ref)
//   - kind: category tag such as aws.compute.Lambda
//   - attrs: node attribute overrides
//
// # Edge Fields
//
// from and to take one ref or a list; every from is connected to every to.
// The remaining keys (label, color, style, dir, fontcolor, fontsize,
// penwidth, minlen) style every produced edge.
//
// # Import
//
// Use [Load] to read a file by extension, or [Decode] for any io.Reader, then
// [Build] to run the construction protocol:
//
//	m, err := io.Load("web.yaml")
//	d, err := io.Build(m)
//
// Unknown keys are rejected in every syntax. Edges naming an unknown ref are
// REFERENCE_ERRORs; other structural problems are INVALID_MANIFEST.
//
// # Export
//
// [WriteJSON], [WriteYAML] and [ExportJSON] write a diagram back as a
// manifest that [Build] accepts.
package io
