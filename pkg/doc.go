// Package pkg provides the core libraries for Wavetower timing-diagram compilation.
//
// # Overview
//
// Wavetower compiles WaveJSON — the compact textual grammar for digital timing
// diagrams (signal transitions, data buses, clock edges, timing arrows) — into a
// structured diagram model and deterministic vector geometry. The pkg directory
// is organized into four main areas:
//
//  1. [wavejson] + [grammar] - Input format (document decoding, wave-character tables)
//  2. [compile] - Domain logic (signal/document compilation, node registry, edges)
//  3. [layout] + [geometry] - Deterministic 2-D layout and its declarative output
//  4. [pipeline] + [render/sink] - Orchestration and geometry consumers (SVG, JSON)
//
// # Architecture
//
// The typical data flow through Wavetower:
//
//	WaveJSON document
//	         ↓
//	    [wavejson] package (decode + normalize the signal tree)
//	         ↓
//	    [compile] package (segments, rows, node registry, resolved edges)
//	         ↓
//	    [layout] package (rows × columns → geometry primitives)
//	         ↓
//	    [render/sink] package (SVG markup, JSON geometry)
//
// # Quick Start
//
// Compile a document and render it to SVG:
//
//	import (
//	    "github.com/matzehuels/wavetower/pkg/compile"
//	    "github.com/matzehuels/wavetower/pkg/layout"
//	    "github.com/matzehuels/wavetower/pkg/render/sink"
//	    "github.com/matzehuels/wavetower/pkg/wavejson"
//	)
//
//	doc, _ := wavejson.Decode([]byte(`{"signal":[{"name":"clk","wave":"p...."}]}`))
//	diagram, _ := compile.Compile(doc, compile.Options{})
//	geom := layout.Build(diagram, layout.Options{})
//	svg := sink.RenderSVG(geom)
//
// # Main Packages
//
// [grammar] - Static wave-character tables: one trait record per character of the
// WaveJSON alphabet (levels, clock edges, data spans, gaps, tri-state, pulls).
//
// [wavejson] - Document decoding. Normalizes the heterogeneous signal array
// (signals, spacers, arbitrarily nested groups) into a discriminated tree once,
// at parse time.
//
// [compile] - The compiler core: per-signal expansion (period/phase), segment
// production, row assignment, the node-letter registry, and the edge-string
// resolver. Errors are collected per entity so a whole document reports every
// problem in one pass.
//
// [layout] - Converts a compiled diagram into flat, ordered geometry: wave
// bricks, data hexagons, gap markers, group brackets, and routed arrow paths.
// Output is declarative; nothing is drawn.
//
// [geometry] - The primitive vocabulary (paths, polygons, text) shared by the
// layout engine and all sinks.
//
// [render/sink] - Geometry consumers: SVG markup and JSON. These are the only
// places concrete colors, fonts, and markup exist.
//
// [pipeline] - decode → compile → layout → render orchestration with per-stage
// timing and artifact caching, shared by the CLI and any embedding program.
//
// [cache] - Content-hash keyed artifact cache (file-backed and null).
//
// [errors] - Structured error codes for every compile failure mode.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/compile/...  # Specific package
//	go test -run Example       # Examples only
//
// [grammar]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/grammar
// [wavejson]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/wavejson
// [compile]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/compile
// [layout]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/layout
// [geometry]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/geometry
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/wavetower/pkg/errors
package pkg
