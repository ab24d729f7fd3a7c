package layout_test

import (
	"reflect"
	"testing"

	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/geometry"
	"github.com/matzehuels/wavetower/pkg/layout"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// build decodes, compiles, and lays out a document, failing the test on any
// problem along the way.
func build(t *testing.T, src string, opts layout.Options) *geometry.Geometry {
	t.Helper()

	doc, err := wavejson.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	d, err := compile.Compile(doc, compile.Options{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !d.Valid() {
		t.Fatalf("Compile() problems = %v", d.Problems)
	}
	return layout.Build(d, opts)
}

// classes lists the primitive classes in emission order.
func classes(g *geometry.Geometry) []string {
	out := make([]string, len(g.Primitives))
	for i, p := range g.Primitives {
		out[i] = p.Class
	}
	return out
}

// find returns the primitives with the given class, in order.
func find(g *geometry.Geometry, class string) []geometry.Primitive {
	var out []geometry.Primitive
	for _, p := range g.Primitives {
		if p.Class == class {
			out = append(out, p)
		}
	}
	return out
}

func TestBuildFrameAndOrder(t *testing.T) {
	g := build(t, `{"signal":[
		{"name":"clk","wave":"p."},
		{"name":"bus","wave":"x=x","data":["A"]}
	]}`, layout.Options{})

	// Gutter is Margin + NameWidth, three columns wide, two rows tall.
	if got, want := g.Width, 118.0+3*40+8; got != want {
		t.Errorf("Width = %v, want %v", got, want)
	}
	if got, want := g.Height, 8.0+2*40+8; got != want {
		t.Errorf("Height = %v, want %v", got, want)
	}

	// clk: name, two pulses, undefined padding out to the third column.
	// bus: name, undefined, data box with its label, undefined.
	want := []string{
		"name", "wave", "wave", "undefined",
		"name", "undefined", "data", "data-label", "undefined",
	}
	if got := classes(g); !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}

	pad := find(g, "undefined")[0]
	if got, want := len(pad.Points), 5; got != want {
		t.Fatalf("padding points = %d, want %d", got, want)
	}
	// The padding box is cut flat at the frame edge, not pointed.
	if pad.Points[2].X != pad.Points[3].X {
		t.Errorf("padding right edge = %v..%v, want vertical", pad.Points[2], pad.Points[3])
	}
}

func TestBuildHScaleScalesColumnsOnly(t *testing.T) {
	g1 := build(t, `{"signal":[{"name":"bus","wave":"0=x","data":"D"}]}`, layout.Options{})
	g2 := build(t, `{"signal":[{"name":"bus","wave":"0=x","data":"D"}],"config":{"hscale":2}}`, layout.Options{})

	// Three columns double from 120px to 240px, nothing else moves.
	if got, want := g2.Width-g1.Width, 3*40.0; got != want {
		t.Errorf("width delta = %v, want %v", got, want)
	}
	if g1.Height != g2.Height {
		t.Errorf("Height = %v and %v, want equal", g1.Height, g2.Height)
	}
	if len(g1.Primitives) != len(g2.Primitives) {
		t.Errorf("primitive count = %d and %d, want equal", len(g1.Primitives), len(g2.Primitives))
	}

	// The transition slant keeps its width at every scale.
	for _, g := range []*geometry.Geometry{g1, g2} {
		box := find(g, "data")[0]
		if got, want := box.Points[1].X-box.Points[0].X, 6.0; got != want {
			t.Errorf("transition width = %v, want %v", got, want)
		}
	}
}

func TestBuildHScaleOverride(t *testing.T) {
	g1 := build(t, `{"signal":[{"name":"s","wave":"10"}]}`, layout.Options{})
	g2 := build(t, `{"signal":[{"name":"s","wave":"10"}]}`, layout.Options{HScale: 3})

	if got, want := g2.Width-g1.Width, 2*2*40.0; got != want {
		t.Errorf("width delta = %v, want %v", got, want)
	}
}

func TestBuildGroupBracket(t *testing.T) {
	g := build(t, `{"signal":[["ctl",{"name":"a","wave":"1"},{"name":"b","wave":"0"}]]}`, layout.Options{})

	// One nesting level widens the gutter by one indent.
	if got, want := g.Width, 8.0+16+110+40+8; got != want {
		t.Errorf("Width = %v, want %v", got, want)
	}

	brackets := find(g, "group-bracket")
	if len(brackets) != 1 {
		t.Fatalf("brackets = %d, want 1", len(brackets))
	}
	ops := brackets[0].Ops
	if got, want := len(ops), 4; got != want {
		t.Fatalf("bracket ops = %d, want %d", got, want)
	}
	// The bracket spine spans the two child bands below the label row.
	if got, want := ops[1].To, (geometry.Point{X: 8, Y: 48}); got != want {
		t.Errorf("bracket top = %v, want %v", got, want)
	}
	if got, want := ops[2].To, (geometry.Point{X: 8, Y: 128}); got != want {
		t.Errorf("bracket bottom = %v, want %v", got, want)
	}

	labels := find(g, "group-label")
	if len(labels) != 1 || labels[0].Text != "ctl" {
		t.Fatalf("group labels = %+v, want one %q", labels, "ctl")
	}
	// Child names sit one indent deeper than the label.
	names := find(g, "name")
	if len(names) != 2 {
		t.Fatalf("names = %d, want 2", len(names))
	}
	if got, want := names[0].At.X-labels[0].At.X, 16.0; got != want {
		t.Errorf("name indent = %v, want %v", got, want)
	}
}

func TestBuildGapOverlay(t *testing.T) {
	g := build(t, `{"signal":[{"name":"s","wave":"1|."}]}`, layout.Options{})

	want := []string{"name", "wave", "gap-fill", "gap", "gap"}
	if got := classes(g); !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}

	// The break stays one unbroken line underneath, drawn edge to edge.
	wavePath := find(g, "wave")[0]
	if got, want := len(wavePath.Ops), 2; got != want {
		t.Errorf("wave ops = %d, want %d", got, want)
	}
	if got, want := wavePath.Ops[1].To.X, 118.0+3*40; got != want {
		t.Errorf("wave end = %v, want %v", got, want)
	}

	// The overlay is centered on the gap column.
	fill := find(g, "gap-fill")[0]
	cx := 0.0
	for _, p := range fill.Points {
		cx += p.X
	}
	if got, want := cx/4, 118.0+1.5*40; got != want {
		t.Errorf("gap center = %v, want %v", got, want)
	}
}

func TestBuildClockArrows(t *testing.T) {
	g := build(t, `{"signal":[{"name":"c","wave":"P"},{"name":"d","wave":"N"},{"name":"e","wave":"p"}]}`, layout.Options{})

	arrows := find(g, "clock-arrow")
	if len(arrows) != 2 {
		t.Fatalf("clock arrows = %d, want 2", len(arrows))
	}
	// P points up, N points down.
	if up := arrows[0]; up.Points[0].Y >= up.Points[1].Y {
		t.Errorf("P arrow tip = %v, base %v, want tip above", up.Points[0], up.Points[1])
	}
	if down := arrows[1]; down.Points[0].Y <= down.Points[1].Y {
		t.Errorf("N arrow tip = %v, base %v, want tip below", down.Points[0], down.Points[1])
	}
}

func TestBuildClockRepeatDrawsEachPulse(t *testing.T) {
	g := build(t, `{"signal":[{"name":"c","wave":"P.."}]}`, layout.Options{})

	if got, want := len(find(g, "wave")), 3; got != want {
		t.Errorf("pulses = %d, want %d", got, want)
	}
	if got, want := len(find(g, "clock-arrow")), 3; got != want {
		t.Errorf("clock arrows = %d, want %d", got, want)
	}
}

func TestBuildNodeLabels(t *testing.T) {
	g := build(t, `{"signal":[{"name":"s","wave":"10","node":"Ab"}]}`, layout.Options{})

	labels := find(g, "node-label")
	if len(labels) != 1 {
		t.Fatalf("node labels = %d, want 1 (lowercase anchors are invisible)", len(labels))
	}
	if labels[0].Text != "A" {
		t.Errorf("label text = %q, want %q", labels[0].Text, "A")
	}
	if got, want := labels[0].At, (geometry.Point{X: 138, Y: 28}); got != want {
		t.Errorf("label at = %v, want %v", got, want)
	}
}

func TestBuildEdgeRouting(t *testing.T) {
	g := build(t, `{"signal":[
		{"name":"a","wave":"10.","node":"a.."},
		{"name":"b","wave":"0.1","node":"..b"}
	],"edge":["a-|>b"]}`, layout.Options{})

	edges := find(g, "edge")
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}

	// The straight leg absorbs all horizontal travel, the vertical leg all
	// vertical travel.
	ops := edges[0].Ops
	wantOps := []geometry.Point{{X: 138, Y: 28}, {X: 218, Y: 28}, {X: 218, Y: 68}}
	for i, want := range wantOps {
		if got := ops[i].To; got != want {
			t.Errorf("waypoint %d = %v, want %v", i, got, want)
		}
	}

	heads := find(g, "edge-arrow")
	if len(heads) != 1 {
		t.Fatalf("arrowheads = %d, want 1", len(heads))
	}
	if got, want := heads[0].Points[0], (geometry.Point{X: 218, Y: 68}); got != want {
		t.Errorf("arrowhead tip = %v, want %v", got, want)
	}
}

func TestBuildEdgeLabels(t *testing.T) {
	g := build(t, `{"signal":[
		{"name":"req","wave":"10","node":"a."},
		{"name":"ack","wave":"01","node":".b"}
	],"edge":["a~>b t_ack","a-#-b mid"]}`, layout.Options{})

	labels := find(g, "edge-label")
	if len(labels) != 2 {
		t.Fatalf("edge labels = %d, want 2", len(labels))
	}

	// Unanchored labels ride the source end.
	if got, want := labels[0].At, (geometry.Point{X: 144, Y: 22}); got != want {
		t.Errorf("start label at = %v, want %v", got, want)
	}
	if labels[0].Anchor != geometry.AnchorStart {
		t.Errorf("start label anchor = %q, want %q", labels[0].Anchor, geometry.AnchorStart)
	}

	// '#' labels sit at the path midpoint.
	if got, want := labels[1].At, (geometry.Point{X: 158, Y: 42}); got != want {
		t.Errorf("mid label at = %v, want %v", got, want)
	}
	if labels[1].Anchor != geometry.AnchorMiddle {
		t.Errorf("mid label anchor = %q, want %q", labels[1].Anchor, geometry.AnchorMiddle)
	}

	// The curved leg renders as a cubic.
	curved := find(g, "edge")[0]
	if got, want := curved.Ops[1].Op, geometry.OpCurve; got != want {
		t.Errorf("curve op = %q, want %q", got, want)
	}
}

func TestBuildCaptions(t *testing.T) {
	g := build(t, `{"signal":[{"name":"s","wave":"1"}],"head":{"text":"T"},"foot":{"text":"B"}}`, layout.Options{})

	if got, want := g.Height, 8.0+24+40+24+8; got != want {
		t.Errorf("Height = %v, want %v", got, want)
	}
	if g.Head != "T" || g.Foot != "B" {
		t.Errorf("captions = %q/%q, want T/B", g.Head, g.Foot)
	}

	head := find(g, "head")[0]
	if got, want := head.At, (geometry.Point{X: 138, Y: 20}); got != want {
		t.Errorf("head at = %v, want %v", got, want)
	}
	foot := find(g, "foot")[0]
	if got, want := foot.At, (geometry.Point{X: 138, Y: 84}); got != want {
		t.Errorf("foot at = %v, want %v", got, want)
	}

	// The wave band shifts below the head caption.
	wavePath := find(g, "wave")[0]
	if got, want := wavePath.Ops[0].To.Y, 42.0; got != want {
		t.Errorf("wave top = %v, want %v", got, want)
	}
}

func TestBuildFailedRowKeepsBand(t *testing.T) {
	doc, err := wavejson.Decode([]byte(`{"signal":[{"name":"bad","wave":"q"},{"name":"ok","wave":"1"}]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	d, err := compile.Compile(doc, compile.Options{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(d.Problems) != 1 {
		t.Fatalf("problems = %v, want 1", d.Problems)
	}

	g := layout.Build(d, layout.Options{})

	// The failed row keeps its name and its band, but draws no wave.
	want := []string{"name", "name", "wave"}
	if got := classes(g); !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}
	if got, want := g.Height, 8.0+2*40+8; got != want {
		t.Errorf("Height = %v, want %v", got, want)
	}
}

func TestBuildClippedRunStartsFlat(t *testing.T) {
	g := build(t, `{"signal":[{"name":"s","wave":"1...","phase":-2}]}`, layout.Options{})

	// Two columns survive the clip and the line starts without an entry
	// transition.
	wavePath := find(g, "wave")[0]
	if got, want := len(wavePath.Ops), 2; got != want {
		t.Fatalf("wave ops = %d, want %d", got, want)
	}
	if got, want := wavePath.Ops[0].To, (geometry.Point{X: 118, Y: 18}); got != want {
		t.Errorf("wave start = %v, want %v", got, want)
	}
	if got, want := wavePath.Ops[1].To, (geometry.Point{X: 198, Y: 18}); got != want {
		t.Errorf("wave end = %v, want %v", got, want)
	}
}

func TestBuildDeterministic(t *testing.T) {
	const src = `{"signal":[
		{"name":"clk","wave":"p...","node":".a.."},
		{"name":"data","wave":"x=.x","data":["head"],"node":".b.."}
	],"edge":["a~>b t1"],"head":{"text":"hi"}}`

	g1 := build(t, src, layout.Options{})
	g2 := build(t, src, layout.Options{})

	if !reflect.DeepEqual(g1, g2) {
		t.Error("Build() differs across runs, want identical output")
	}
}
