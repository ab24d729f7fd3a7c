package sink_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/geometry"
	"github.com/matzehuels/wavetower/pkg/layout"
	"github.com/matzehuels/wavetower/pkg/render/sink"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// testGeometry lays out a small document exercising dashed strokes, palette
// fills, undefined hatching, and text escaping.
func testGeometry(t *testing.T) *geometry.Geometry {
	t.Helper()

	doc, err := wavejson.Decode([]byte(`{"signal":[{"name":"rd&wr","wave":"u2x","data":["A"]}]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	d, err := compile.Compile(doc, compile.Options{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return layout.Build(d, layout.Options{})
}

func TestRenderSVGDeterministic(t *testing.T) {
	g := testGeometry(t)

	svg1 := sink.RenderSVG(g, sink.WithInstanceID("wt-test"))
	svg2 := sink.RenderSVG(g, sink.WithInstanceID("wt-test"))

	if !bytes.Equal(svg1, svg2) {
		t.Error("RenderSVG() differs across runs with a pinned instance ID")
	}
	if want := `viewBox="0 0 246 56"`; !bytes.Contains(svg1, []byte(want)) {
		t.Errorf("RenderSVG() missing %q", want)
	}
}

func TestRenderSVGContent(t *testing.T) {
	g := testGeometry(t)
	svg := string(sink.RenderSVG(g, sink.WithInstanceID("wt-test")))

	for _, want := range []string{
		`.wt-test .wave`,                // scoped stylesheet
		`stroke-dasharray="4 2"`,        // pull state renders dashed
		`fill="#ffffc7"`,                // data slot 1 from the default palette
		`url(#wt-test-hatch)`,           // undefined regions use the hatch pattern
		`rd&amp;wr`,                     // signal names are escaped
		`<text class="data-label"`,      // data label text
		`<g class="wt-test">`,           // scoping group
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}

	if strings.Contains(svg, "rd&wr") {
		t.Error("RenderSVG() contains unescaped ampersand")
	}
}

func TestRenderSVGRandomInstanceID(t *testing.T) {
	g := testGeometry(t)

	svg1 := string(sink.RenderSVG(g))
	svg2 := string(sink.RenderSVG(g))

	if !strings.Contains(svg1, `<g class="wt-`) {
		t.Error("RenderSVG() missing generated instance ID")
	}
	if svg1 == svg2 {
		t.Error("RenderSVG() reused an instance ID across renders")
	}
}

func TestRenderSVGPalette(t *testing.T) {
	// One data polygon inside the palette, one beyond it.
	g := &geometry.Geometry{Width: 10, Height: 10}
	in := geometry.Polygon(geometry.ClassData, geometry.Point{X: 1, Y: 1})
	in.ColorIndex = 1
	out := geometry.Polygon(geometry.ClassData, geometry.Point{X: 2, Y: 2})
	out.ColorIndex = 4
	g.Primitives = append(g.Primitives, in, out)

	svg := string(sink.RenderSVG(g,
		sink.WithInstanceID("wt-test"),
		sink.WithPalette([]string{"#111111", "#222222"})))

	if !strings.Contains(svg, `fill="#222222"`) {
		t.Error("RenderSVG() missing palette override fill")
	}
	if strings.Contains(svg, `points="2,2" fill=`) {
		t.Error("RenderSVG() filled a polygon beyond the palette")
	}
}

func TestRenderSVGCurvePathData(t *testing.T) {
	g := &geometry.Geometry{Width: 10, Height: 10}
	g.Primitives = append(g.Primitives,
		geometry.Path(geometry.ClassEdge, 0, 0).Curve(1, 0, 2, 3, 3, 3).Close())

	svg := string(sink.RenderSVG(g, sink.WithInstanceID("wt-test")))

	if want := `d="M0 0 C1 0 2 3 3 3 Z"`; !strings.Contains(svg, want) {
		t.Errorf("RenderSVG() missing %q", want)
	}
}
