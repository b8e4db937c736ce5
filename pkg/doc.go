// Package pkg provides the core libraries for stackdiagram.
//
// # Overview
//
// Stackdiagram turns declarative manifests of infrastructure nodes, nested
// clusters and edges into Graphviz DOT and rendered images. The pkg
// directory is organized into three areas:
//
//  1. Domain: [diagram] (model and scoped construction), [render/dot]
//     (DOT serialization), [render] (rasterization backends)
//  2. Input and orchestration: [io] (manifests in YAML, JSON, TOML, HCL),
//     [pipeline] (manifest to artifact, with caching)
//  3. Infrastructure: [cache], [config], [errors], [observability],
//     [server], [buildinfo]
//
// # Architecture
//
//	Manifest (yaml/json/toml/hcl)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [diagram] package (context stack, node registry, edges)
//	         ↓
//	    [render/dot] package (DOT text)
//	         ↓
//	    [render] package (svg, png, jpg, pdf)
//
// # Quick Start
//
//	d, err := diagram.Build("Web Service", func(d *diagram.Diagram) error {
//	    lb, err := d.Node("lb", "aws.network.ELB")
//	    if err != nil {
//	        return err
//	    }
//	    web, err := d.Node("web", "aws.compute.EC2")
//	    if err != nil {
//	        return err
//	    }
//	    _, err = d.Connect(lb, web, diagram.EdgeAttrs{})
//	    return err
//	}, diagram.WithDirection(diagram.TopToBottom))
//	src, err := dot.ToDOT(d)
//
// Most callers go through [pipeline.Runner], which adds format selection and
// the artifact cache.
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/diagram
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/render/dot
// [render]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/server
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stackdiagram/pkg/buildinfo
package pkg
