package layout

import (
	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/geometry"
)

// bracketTick is the length of the horizontal serifs closing a bracket.
const bracketTick = 4.0

// buildBrackets draws a vertical bracket for every labeled group, spanning
// the bands of its descendant rows. Unlabeled groups have no band of their
// own and get no bracket.
func buildBrackets(g *geometry.Geometry, f frame, d *compile.Diagram) {
	for i := range d.Rows {
		row := &d.Rows[i]
		if row.Kind != compile.RowGroupLabel || row.Span == 0 {
			continue
		}

		x := f.indentX(row.Depth)
		y0 := f.rowTop(row.Index + 1)
		y1 := f.rowTop(row.Index + 1 + row.Span)

		g.Primitives = append(g.Primitives,
			geometry.Path(geometry.ClassGroupBracket, x+bracketTick, y0).
				Line(x, y0).
				Line(x, y1).
				Line(x+bracketTick, y1))
	}
}
