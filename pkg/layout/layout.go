// Package layout converts compiled diagrams into declarative geometry.
//
// The engine is pure and deterministic: the same diagram and options always
// produce the same primitive list, in the same order. All positions are in
// abstract pixels; hscale multiplies column width and nothing else.
package layout

import (
	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/geometry"
)

// Layout constants, in abstract pixels.
const (
	// BaseColWidth is the width of one column at hscale 1.
	BaseColWidth = 40.0

	// RowHeight is the fixed height of every row band.
	RowHeight = 40.0

	// WaveHeight is the vertical extent of a waveform inside its band.
	WaveHeight = 20.0

	// TransitionWidth is the horizontal extent of a state transition
	// slant. It does not scale with hscale.
	TransitionWidth = 6.0

	// GroupIndent is the horizontal shift per nesting depth.
	GroupIndent = 16.0

	// NameWidth is the gutter band reserved for signal names.
	NameWidth = 110.0

	// CaptionHeight is the band reserved for a head or foot caption.
	CaptionHeight = 24.0

	// Margin is the outer frame padding.
	Margin = 8.0
)

// Options controls layout.
type Options struct {
	// HScale overrides the document's horizontal scale when positive.
	HScale int
}

// frame precomputes the coordinate system for one build.
type frame struct {
	colWidth float64
	gutter   float64
	top      float64
	columns  int
}

func newFrame(d *compile.Diagram, hscale int) frame {
	maxDepth := 0
	for i := range d.Rows {
		if d.Rows[i].Depth > maxDepth {
			maxDepth = d.Rows[i].Depth
		}
	}

	top := Margin
	if d.Head != "" {
		top += CaptionHeight
	}

	return frame{
		colWidth: BaseColWidth * float64(hscale),
		gutter:   Margin + GroupIndent*float64(maxDepth) + NameWidth,
		top:      top,
		columns:  d.Columns,
	}
}

// x maps a column boundary to pixels.
func (f frame) x(col int) float64 {
	return f.gutter + float64(col)*f.colWidth
}

// rowTop maps a row index to the top of its band.
func (f frame) rowTop(row int) float64 {
	return f.top + float64(row)*RowHeight
}

// rowMid maps a row index to its vertical center.
func (f frame) rowMid(row int) float64 {
	return f.rowTop(row) + RowHeight/2
}

// cellCenter maps a grid cell to its pixel center, where node anchors sit.
func (f frame) cellCenter(row, col int) geometry.Point {
	return geometry.Point{
		X: f.x(col) + f.colWidth/2,
		Y: f.rowMid(row),
	}
}

// indentX maps a nesting depth to the left edge of its gutter band.
func (f frame) indentX(depth int) float64 {
	return Margin + GroupIndent*float64(depth)
}

// Build lays out a compiled diagram. The primitive order is fixed: row
// content top to bottom, then group brackets, node labels, edges, and
// captions, so later primitives draw over earlier ones.
func Build(d *compile.Diagram, opts Options) *geometry.Geometry {
	hscale := d.HScale
	if opts.HScale > 0 {
		hscale = opts.HScale
	}
	if hscale < 1 {
		hscale = 1
	}

	f := newFrame(d, hscale)

	width := f.x(f.columns) + Margin
	height := f.rowTop(len(d.Rows)) + Margin
	if d.Foot != "" {
		height += CaptionHeight
	}

	g := &geometry.Geometry{
		Width:  width,
		Height: height,
		Head:   d.Head,
		Foot:   d.Foot,
	}

	for i := range d.Rows {
		buildRow(g, f, &d.Rows[i])
	}

	buildBrackets(g, f, d)
	buildNodeLabels(g, f, d)
	buildEdges(g, f, d)
	buildCaptions(g, f, d)

	return g
}

// buildRow emits one row band: the name, then the waveform for signal rows.
func buildRow(g *geometry.Geometry, f frame, row *compile.Row) {
	switch row.Kind {
	case compile.RowSpacer:
		return

	case compile.RowGroupLabel:
		if row.Name != "" {
			g.Primitives = append(g.Primitives,
				geometry.Text(geometry.ClassGroupLabel, row.Name,
					f.indentX(row.Depth), f.rowMid(row.Index), geometry.AnchorStart))
		}
		return

	case compile.RowSignal:
		if row.Name != "" {
			g.Primitives = append(g.Primitives,
				geometry.Text(geometry.ClassName, row.Name,
					f.indentX(row.Depth), f.rowMid(row.Index), geometry.AnchorStart))
		}
		if !row.Failed {
			buildWave(g, f, row)
		}
	}
}

// buildNodeLabels renders the letters of visible (uppercase) anchors.
func buildNodeLabels(g *geometry.Geometry, f frame, d *compile.Diagram) {
	for _, a := range d.Nodes.Anchors() {
		if !a.Visible {
			continue
		}
		at := f.cellCenter(a.Row, a.Column)
		g.Primitives = append(g.Primitives,
			geometry.Text(geometry.ClassNodeLabel, string(a.Letter), at.X, at.Y, geometry.AnchorMiddle))
	}
}

// buildCaptions places the head and foot lines centered over the wave area.
func buildCaptions(g *geometry.Geometry, f frame, d *compile.Diagram) {
	centerX := f.gutter + float64(f.columns)*f.colWidth/2

	if d.Head != "" {
		g.Primitives = append(g.Primitives,
			geometry.Text(geometry.ClassHead, d.Head, centerX, Margin+CaptionHeight/2, geometry.AnchorMiddle))
	}
	if d.Foot != "" {
		y := f.rowTop(len(d.Rows)) + CaptionHeight/2
		g.Primitives = append(g.Primitives,
			geometry.Text(geometry.ClassFoot, d.Foot, centerX, y, geometry.AnchorMiddle))
	}
}
