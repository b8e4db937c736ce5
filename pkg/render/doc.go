// Package render hands serialized diagrams to a layout and rasterization
// backend and classifies its failures.
//
// # Overview
//
// A [Backend] turns DOT text into an artifact. Two are provided:
//
//   - [GraphvizBackend] renders in-process with go-graphviz (svg, png, jpg)
//     and converts SVG to PDF with rsvg-convert
//   - [ExecBackend] runs the Graphviz dot executable
//
// [RenderFile] writes one artifact to disk:
//
//	src, _ := dot.ToDOT(d)
//	err := render.RenderFile(ctx, render.GraphvizBackend{}, []byte(src), render.FormatPNG, "web_service.png")
//
// # Errors
//
// Every failure carries one of three codes from pkg/errors:
//
//   - BACKEND_MISSING: the engine could not be started or the binary is not installed
//   - MALFORMED_GRAPH_INPUT: the engine rejected the graph
//   - WRITE_FAILURE: the destination could not be created or written
//
// Nothing is retried and partially written files are not removed. Backends
// add no timeout; bound the call through ctx.
//
// # Format Conversion
//
// [ToPDF] converts any SVG with the external rsvg-convert tool (from
// librsvg).
package render
