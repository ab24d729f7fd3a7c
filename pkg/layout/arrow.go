package layout

import (
	"math"

	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/geometry"
)

// curveTension controls how far a curved leg's control points reach along
// the horizontal.
const curveTension = 0.7

// buildEdges routes every resolved edge, then its arrowhead and label.
func buildEdges(g *geometry.Geometry, f frame, d *compile.Diagram) {
	for i := range d.Edges {
		buildEdge(g, f, &d.Edges[i])
	}
}

func buildEdge(g *geometry.Geometry, f frame, e *compile.ResolvedEdge) {
	pts := edgeWaypoints(f, e)

	path := geometry.Path(geometry.ClassEdge, pts[0].X, pts[0].Y)
	for i, kind := range e.Shape {
		if kind == compile.ShapeCurve {
			step := (pts[i+1].X - pts[i].X) * curveTension
			path = path.Curve(
				pts[i].X+step, pts[i].Y,
				pts[i+1].X-step, pts[i+1].Y,
				pts[i+1].X, pts[i+1].Y)
			continue
		}
		path = path.Line(pts[i+1].X, pts[i+1].Y)
	}
	g.Primitives = append(g.Primitives, path)

	if e.HasArrowHead {
		g.Primitives = append(g.Primitives, arrowHead(pts[len(pts)-2], pts[len(pts)-1]))
	}

	switch e.LabelAnchor {
	case compile.AnchorStart:
		g.Primitives = append(g.Primitives,
			geometry.Text(geometry.ClassEdgeLabel, e.Label, pts[0].X+6, pts[0].Y-6, geometry.AnchorStart))
	case compile.AnchorMid:
		at := pathMidpoint(pts)
		g.Primitives = append(g.Primitives,
			geometry.Text(geometry.ClassEdgeLabel, e.Label, at.X, at.Y-6, geometry.AnchorMiddle))
	}
}

// edgeWaypoints splits the source-to-destination span across the shape
// legs. Vertical legs absorb no horizontal travel, straight and curved legs
// absorb no vertical travel, diagonals absorb both. When no leg can absorb
// an axis, that axis is spread evenly across all legs instead.
func edgeWaypoints(f frame, e *compile.ResolvedEdge) []geometry.Point {
	from := f.cellCenter(e.From.Row, e.From.Column)
	to := f.cellCenter(e.To.Row, e.To.Column)

	n := len(e.Shape)
	xw := make([]float64, n)
	yw := make([]float64, n)
	for i, kind := range e.Shape {
		switch kind {
		case compile.ShapeVertical:
			yw[i] = 1
		case compile.ShapeDiagonalUp, compile.ShapeDiagonalDown:
			xw[i] = 1
			yw[i] = 1
		default:
			xw[i] = 1
		}
	}
	normalize(xw)
	normalize(yw)

	pts := make([]geometry.Point, n+1)
	pts[0] = from
	x, y := from.X, from.Y
	for i := 0; i < n; i++ {
		x += (to.X - from.X) * xw[i]
		y += (to.Y - from.Y) * yw[i]
		pts[i+1] = geometry.Point{X: x, Y: y}
	}
	pts[n] = to

	return pts
}

// normalize scales weights to sum to one, falling back to an even split
// when they are all zero.
func normalize(w []float64) {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		for i := range w {
			w[i] = 1 / float64(len(w))
		}
		return
	}
	for i := range w {
		w[i] /= sum
	}
}

// arrowHead is a solid triangle with its tip on the destination, aligned
// with the final leg.
func arrowHead(prev, tip geometry.Point) geometry.Primitive {
	dx := tip.X - prev.X
	dy := tip.Y - prev.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		dx, dy, length = 1, 0, 1
	}
	ux, uy := dx/length, dy/length

	const size, halfWidth = 8.0, 3.0
	baseX := tip.X - size*ux
	baseY := tip.Y - size*uy

	return geometry.Polygon(geometry.ClassEdgeArrow,
		tip,
		geometry.Point{X: baseX - halfWidth*uy, Y: baseY + halfWidth*ux},
		geometry.Point{X: baseX + halfWidth*uy, Y: baseY - halfWidth*ux})
}

// pathMidpoint walks the waypoint polyline to its halfway arc length.
func pathMidpoint(pts []geometry.Point) geometry.Point {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	if total == 0 {
		return pts[0]
	}

	remaining := total / 2
	for i := 1; i < len(pts); i++ {
		leg := math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
		if leg < remaining {
			remaining -= leg
			continue
		}
		t := remaining / leg
		return geometry.Point{
			X: pts[i-1].X + (pts[i].X-pts[i-1].X)*t,
			Y: pts[i-1].Y + (pts[i].Y-pts[i-1].Y)*t,
		}
	}

	return pts[len(pts)-1]
}
