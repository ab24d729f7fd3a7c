package layout_test

import (
	"fmt"

	"github.com/matzehuels/wavetower/pkg/compile"
	"github.com/matzehuels/wavetower/pkg/layout"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

func ExampleBuild() {
	doc, _ := wavejson.Decode([]byte(`{
		"signal": [
			{"name": "clk", "wave": "p..."},
			{"name": "bus", "wave": "x=.x", "data": ["head"]}
		]
	}`))
	d, _ := compile.Compile(doc, compile.Options{})

	g := layout.Build(d, layout.Options{})

	fmt.Printf("%.0fx%.0f, %d primitives\n", g.Width, g.Height, len(g.Primitives))
	// Output: 286x96, 10 primitives
}
