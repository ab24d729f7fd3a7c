package sink

import (
	"encoding/json"

	"github.com/matzehuels/wavetower/pkg/geometry"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	palette []string
	compact bool
}

// WithJSONPalette records a data fill palette in the output so consumers
// can reproduce the exact visual. Without it the default palette is
// recorded.
func WithJSONPalette(colors []string) JSONOption {
	return func(r *jsonRenderer) { r.palette = colors }
}

// WithJSONCompact emits single-line JSON instead of the indented default.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Width      float64              `json:"width"`
	Height     float64              `json:"height"`
	Head       string               `json:"head,omitempty"`
	Foot       string               `json:"foot,omitempty"`
	Palette    []string             `json:"palette"`
	Primitives []geometry.Primitive `json:"primitives"`
}

// RenderJSON exports the geometry as a JSON document: the frame, the
// palette in effect, and the full z-ordered primitive list. The output is
// deterministic and suitable for golden-file tests and caching.
//
// RenderJSON returns an error only if marshaling fails, which does not
// happen for well-formed geometry. It does not modify g and is safe to
// call concurrently.
func RenderJSON(g *geometry.Geometry, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      g.Width,
		Height:     g.Height,
		Head:       g.Head,
		Foot:       g.Foot,
		Palette:    r.palette,
		Primitives: g.Primitives,
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
