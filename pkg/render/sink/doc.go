// Package sink provides output format renderers for laid-out diagrams.
//
// # Overview
//
// A "sink" transforms computed [geometry.Geometry] into a final output
// format. This package provides renderers for:
//
//   - SVG: self-contained vector markup with embedded styling
//   - JSON: geometry export for external tools
//
// # SVG Output
//
// [RenderSVG] produces a standalone SVG document. All styling is embedded
// in a <style> block scoped by a per-render instance identifier, so several
// diagrams can be inlined into one HTML page without their rules colliding.
// The identifier is random by default; pass [WithInstanceID] to pin it when
// byte-identical output matters.
//
// Basic usage:
//
//	svg := sink.RenderSVG(g,
//	    sink.WithPalette([]string{"#fff", "#fc0"}),
//	)
//
// # JSON Output
//
// [RenderJSON] exports the full primitive list as JSON, enabling:
//
//   - Integration with external renderers
//   - Golden-file testing of layout output
//   - Caching of computed geometry
//
// The output embeds the palette in effect so a consumer can reproduce the
// exact visual.
//
// # Adding New Formats
//
// To add a new output format:
//
//  1. Create a renderer function: func RenderFoo(g *geometry.Geometry, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Walk g.Primitives in order; the list is already z-sorted
//  4. Register in internal/cli/render.go for CLI support
//
// [geometry.Geometry]: github.com/matzehuels/wavetower/pkg/geometry.Geometry
package sink
