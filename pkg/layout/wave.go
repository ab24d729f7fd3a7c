package layout

import (
	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/geometry"
	"github.com/matzehuels/wavetower/pkg/grammar"
)

// band holds the vertical reference lines of one row's waveform.
type band struct {
	high float64
	mid  float64
	low  float64
}

func rowBand(f frame, row int) band {
	top := f.rowTop(row) + (RowHeight-WaveHeight)/2
	return band{high: top, mid: top + WaveHeight/2, low: top + WaveHeight}
}

func levelY(l grammar.Level, b band) float64 {
	switch l {
	case grammar.LevelHigh:
		return b.high
	case grammar.LevelLow:
		return b.low
	default:
		return b.mid
	}
}

// waveRun is a maximal span of columns drawn as one brick: a level stretch,
// one clock pulse, one data box.
type waveRun struct {
	startCol int
	endCol   int // exclusive
	seg      compile.Segment

	// flatEnd cuts the right edge straight at the frame boundary, used by
	// the synthetic undefined padding.
	flatEnd bool
}

// rowRuns groups a row's segments into drawable runs and appends the
// undefined padding when the signal is shorter than the document.
func rowRuns(row *compile.Row, columns int) []waveRun {
	segs := row.Segments
	if len(segs) == 0 {
		return nil
	}

	var runs []waveRun
	for i, s := range segs {
		if i > 0 && s.SpansFromPrevious {
			runs[len(runs)-1].endCol = s.Column + 1
			continue
		}
		runs = append(runs, waveRun{startCol: s.Column, endCol: s.Column + 1, seg: s})
	}

	if last := runs[len(runs)-1].endCol; last < columns {
		runs = append(runs, waveRun{
			startCol: last,
			endCol:   columns,
			seg:      compile.Segment{Column: last, Kind: grammar.KindUndefined, DataIndex: -1, ColorIndex: -1},
			flatEnd:  true,
		})
	}

	return runs
}

// exitY is the vertical position a run hands to its successor's transition.
func exitY(r waveRun, b band) float64 {
	switch r.seg.Kind {
	case grammar.KindLevel, grammar.KindPull:
		return levelY(r.seg.Level, b)
	case grammar.KindClock:
		// A positive pulse ends low, a negative pulse ends high.
		if r.seg.Level == grammar.LevelHigh {
			return b.low
		}
		return b.high
	default:
		return b.mid
	}
}

// buildWave emits one signal row's waveform: its runs left to right, then
// the gap overlays on top.
func buildWave(g *geometry.Geometry, f frame, row *compile.Row) {
	runs := rowRuns(row, f.columns)
	b := rowBand(f, row.Index)

	prevExit := b.mid
	hasPrev := false
	for _, r := range runs {
		drawRun(g, f, row, r, b, prevExit, hasPrev)
		prevExit = exitY(r, b)
		hasPrev = true
	}

	for _, s := range row.Segments {
		if s.Gap {
			drawGap(g, f, b, s.Column)
		}
	}
}

func drawRun(g *geometry.Geometry, f frame, row *compile.Row, r waveRun, b band, prevExit float64, hasPrev bool) {
	x0 := f.x(r.startCol)
	x1 := f.x(r.endCol)

	switch r.seg.Kind {
	case grammar.KindLevel:
		drawLine(g, x0, x1, levelY(r.seg.Level, b), prevExit, hasPrev, false)

	case grammar.KindPull:
		drawLine(g, x0, x1, levelY(r.seg.Level, b), prevExit, hasPrev, true)

	case grammar.KindHighZ:
		drawLine(g, x0, x1, b.mid, prevExit, hasPrev, false)

	case grammar.KindClock:
		drawClock(g, x0, x1, b, r.seg)

	case grammar.KindData:
		drawBox(g, geometry.ClassData, x0, x1, b, prevExit, hasPrev, r.flatEnd, r.seg.ColorIndex)
		if label := row.DataLabel(r.seg); label != "" {
			g.Primitives = append(g.Primitives,
				geometry.Text(geometry.ClassDataLabel, label, (x0+x1)/2, b.mid, geometry.AnchorMiddle))
		}

	case grammar.KindUndefined:
		drawBox(g, geometry.ClassUndefined, x0, x1, b, prevExit, hasPrev, r.flatEnd, -1)
	}
}

// drawLine draws a flat stretch at y, with a slanted entry transition from
// the previous run's exit when one exists.
func drawLine(g *geometry.Geometry, x0, x1, y, prevExit float64, entry, dashed bool) {
	var p geometry.Primitive
	if entry {
		p = geometry.Path(geometry.ClassWave, x0, prevExit).
			Line(x0+TransitionWidth, y).
			Line(x1, y)
	} else {
		p = geometry.Path(geometry.ClassWave, x0, y).Line(x1, y)
	}
	p.Dashed = dashed
	g.Primitives = append(g.Primitives, p)
}

// drawClock draws one pulse stretched over the run span. The driving edge
// sits at the run start; P and N decorate it with an arrow.
func drawClock(g *geometry.Geometry, x0, x1 float64, b band, seg compile.Segment) {
	xm := (x0 + x1) / 2

	var p geometry.Primitive
	if seg.Level == grammar.LevelHigh {
		p = geometry.Path(geometry.ClassWave, x0, b.low).
			Line(x0, b.high).
			Line(xm, b.high).
			Line(xm, b.low).
			Line(x1, b.low)
	} else {
		p = geometry.Path(geometry.ClassWave, x0, b.high).
			Line(x0, b.low).
			Line(xm, b.low).
			Line(xm, b.high).
			Line(x1, b.high)
	}
	g.Primitives = append(g.Primitives, p)

	if !seg.ArrowEdge {
		return
	}

	// The arrow rides the driving edge: up for positive clocks, down for
	// negative ones.
	if seg.Level == grammar.LevelHigh {
		g.Primitives = append(g.Primitives, geometry.Polygon(geometry.ClassClockArrow,
			geometry.Point{X: x0, Y: b.mid - 5},
			geometry.Point{X: x0 - 4, Y: b.mid + 4},
			geometry.Point{X: x0 + 4, Y: b.mid + 4}))
	} else {
		g.Primitives = append(g.Primitives, geometry.Polygon(geometry.ClassClockArrow,
			geometry.Point{X: x0, Y: b.mid + 5},
			geometry.Point{X: x0 - 4, Y: b.mid - 4},
			geometry.Point{X: x0 + 4, Y: b.mid - 4}))
	}
}

// drawBox draws a data or undefined region. The left edge is pointed at the
// previous run's exit when a predecessor exists and flat at the frame edge
// otherwise; the right edge is pointed at the midline unless the run is cut
// by the frame.
func drawBox(g *geometry.Geometry, class string, x0, x1 float64, b band, prevExit float64, hasPrev, flatEnd bool, colorIndex int) {
	var pts []geometry.Point

	if hasPrev {
		pts = append(pts, geometry.Point{X: x0, Y: prevExit}, geometry.Point{X: x0 + TransitionWidth, Y: b.high})
	} else {
		pts = append(pts, geometry.Point{X: x0, Y: b.high})
	}

	if flatEnd {
		pts = append(pts, geometry.Point{X: x1, Y: b.high}, geometry.Point{X: x1, Y: b.low})
	} else {
		pts = append(pts,
			geometry.Point{X: x1 - TransitionWidth, Y: b.high},
			geometry.Point{X: x1, Y: b.mid},
			geometry.Point{X: x1 - TransitionWidth, Y: b.low})
	}

	if hasPrev {
		pts = append(pts, geometry.Point{X: x0 + TransitionWidth, Y: b.low})
	} else {
		pts = append(pts, geometry.Point{X: x0, Y: b.low})
	}

	p := geometry.Polygon(class, pts...)
	p.ColorIndex = colorIndex
	g.Primitives = append(g.Primitives, p)
}

// drawGap draws the jagged break overlay: a skewed band erasing the wave
// beneath, edged by two slashes.
func drawGap(g *geometry.Geometry, f frame, b band, col int) {
	cx := f.x(col) + f.colWidth/2
	top := b.high - 4
	bot := b.low + 4

	g.Primitives = append(g.Primitives, geometry.Polygon(geometry.ClassGapFill,
		geometry.Point{X: cx - 9, Y: bot},
		geometry.Point{X: cx - 3, Y: top},
		geometry.Point{X: cx + 9, Y: top},
		geometry.Point{X: cx + 3, Y: bot}))

	g.Primitives = append(g.Primitives,
		geometry.Path(geometry.ClassGap, cx-9, bot).Line(cx-3, top),
		geometry.Path(geometry.ClassGap, cx+3, bot).Line(cx+9, top))
}
