package sink

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/wavetower/pkg/geometry"
)

// DefaultPalette holds the fill colors for data polygons, indexed by
// geometry.Primitive.ColorIndex. The slots correspond to the data wave
// characters =, 2, 3, 4, 5.
var DefaultPalette = []string{
	"#ffffff", // =
	"#ffffc7", // 2
	"#c7e7ff", // 3
	"#c7ffc7", // 4
	"#ffc7c7", // 5
}

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	id      string
	palette []string
}

// WithInstanceID pins the per-render instance identifier used to scope the
// embedded CSS. By default every render gets a fresh random identifier;
// pinning it makes the output byte-reproducible.
func WithInstanceID(id string) SVGOption { return func(r *svgRenderer) { r.id = id } }

// WithPalette replaces the data fill palette. Polygons whose ColorIndex
// falls outside the palette are rendered without an explicit fill.
func WithPalette(colors []string) SVGOption { return func(r *svgRenderer) { r.palette = colors } }

// RenderSVG renders geometry as a standalone SVG document. The output is
// deterministic for a fixed instance identifier; without [WithInstanceID]
// only the scoping identifier varies between calls.
func RenderSVG(g *geometry.Geometry, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(g.Width), num(g.Height), num(g.Width), num(g.Height))

	r.renderDefs(&buf)
	r.renderStyle(&buf)

	fmt.Fprintf(&buf, "  <g class=\"%s\">\n", r.id)
	for _, p := range g.Primitives {
		r.renderPrimitive(&buf, p)
	}
	buf.WriteString("  </g>\n</svg>\n")

	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}
	if r.id == "" {
		r.id = "wt-" + uuid.NewString()[:8]
	}
	return r
}

// renderDefs writes the hatch pattern used to fill undefined regions.
func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <pattern id="%s-hatch" patternUnits="userSpaceOnUse" width="6" height="6" patternTransform="rotate(45)">
      <line x1="0" y1="0" x2="0" y2="6" stroke="#b9b9b9" stroke-width="1"/>
    </pattern>
  </defs>
`, r.id)
}

// renderStyle writes the embedded stylesheet, scoped by the instance
// identifier so several rendered diagrams can share a page.
func (r *svgRenderer) renderStyle(buf *bytes.Buffer) {
	id := r.id
	fmt.Fprintf(buf, `  <style>
    .%[1]s text { font-family: Helvetica, Arial, sans-serif; font-size: 11px; fill: #000; dominant-baseline: central; }
    .%[1]s .wave { fill: none; stroke: #0041c4; stroke-width: 1; }
    .%[1]s .clock-arrow { fill: #0041c4; stroke: none; }
    .%[1]s .data, .%[1]s .undefined { stroke: #000; stroke-width: 0.5; }
    .%[1]s .undefined { fill: url(#%[1]s-hatch); }
    .%[1]s .gap-fill { fill: #ffffff; stroke: none; }
    .%[1]s .gap { fill: none; stroke: #000; stroke-width: 1; }
    .%[1]s .name { font-size: 12px; }
    .%[1]s .group-label { font-size: 12px; font-weight: bold; }
    .%[1]s .group-bracket { fill: none; stroke: #0041c4; stroke-width: 1; }
    .%[1]s .edge { fill: none; stroke: #0041c4; stroke-width: 1; }
    .%[1]s .edge-arrow { fill: #0041c4; stroke: none; }
    .%[1]s .edge-label, .%[1]s .node-label { font-size: 10px; fill: #0041c4; }
    .%[1]s .data-label { font-size: 10px; text-anchor: middle; }
    .%[1]s .head, .%[1]s .foot { font-size: 13px; }
  </style>
`, id)
}

func (r *svgRenderer) renderPrimitive(buf *bytes.Buffer, p geometry.Primitive) {
	switch p.Kind {
	case geometry.KindPath:
		fmt.Fprintf(buf, `    <path class="%s" d="%s"`, p.Class, pathData(p.Ops))
		if p.Dashed {
			buf.WriteString(` stroke-dasharray="4 2"`)
		}
		buf.WriteString("/>\n")

	case geometry.KindPolygon:
		fmt.Fprintf(buf, `    <polygon class="%s" points="%s"`, p.Class, pointData(p.Points))
		if p.ColorIndex >= 0 && p.ColorIndex < len(r.palette) {
			fmt.Fprintf(buf, ` fill="%s"`, r.palette[p.ColorIndex])
		}
		buf.WriteString("/>\n")

	case geometry.KindText:
		fmt.Fprintf(buf, `    <text class="%s" x="%s" y="%s" text-anchor="%s"`,
			p.Class, num(p.At.X), num(p.At.Y), p.Anchor)
		if p.Rotate != 0 {
			fmt.Fprintf(buf, ` transform="rotate(%s %s %s)"`, num(p.Rotate), num(p.At.X), num(p.At.Y))
		}
		fmt.Fprintf(buf, ">%s</text>\n", escape(p.Text))
	}
}

// pathData serializes path operations as an SVG path data string.
func pathData(ops []geometry.PathOp) string {
	var sb strings.Builder
	for i, op := range ops {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch op.Op {
		case geometry.OpClose:
			sb.WriteString("Z")
		case geometry.OpCurve:
			fmt.Fprintf(&sb, "C%s %s %s %s %s %s",
				num(op.C1.X), num(op.C1.Y), num(op.C2.X), num(op.C2.Y), num(op.To.X), num(op.To.Y))
		default:
			fmt.Fprintf(&sb, "%s%s %s", op.Op, num(op.To.X), num(op.To.Y))
		}
	}
	return sb.String()
}

// pointData serializes polygon vertices as an SVG points attribute.
func pointData(points []geometry.Point) string {
	var sb strings.Builder
	for i, pt := range points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s,%s", num(pt.X), num(pt.Y))
	}
	return sb.String()
}

// num formats a coordinate without trailing zeros or exponents.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return xmlEscaper.Replace(s)
}
