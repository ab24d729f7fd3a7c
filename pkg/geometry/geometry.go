// Package geometry defines the declarative draw vocabulary produced by the
// layout engine and consumed by render sinks.
//
// A Geometry is a flat, ordered list of primitives (paths, polygons, text) in
// abstract pixel units. Nothing here draws: mapping primitives onto a
// concrete surface (SVG markup, JSON, raster) is a sink's job, and all
// concrete colors and fonts live in the sinks.
package geometry

// Classes tag primitives with their diagram role so sinks can style them
// without re-deriving structure.
const (
	ClassWave         = "wave"
	ClassClockArrow   = "clock-arrow"
	ClassData         = "data"
	ClassDataLabel    = "data-label"
	ClassUndefined    = "undefined"
	ClassGapFill      = "gap-fill"
	ClassGap          = "gap"
	ClassName         = "name"
	ClassGroupBracket = "group-bracket"
	ClassGroupLabel   = "group-label"
	ClassEdge         = "edge"
	ClassEdgeArrow    = "edge-arrow"
	ClassEdgeLabel    = "edge-label"
	ClassNodeLabel    = "node-label"
	ClassHead         = "head"
	ClassFoot         = "foot"
)

// Point is a position in abstract pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OpKind is one path operation, using the SVG path letter as its value.
type OpKind string

const (
	// OpMove lifts the pen to To.
	OpMove OpKind = "M"

	// OpLine draws a straight leg to To.
	OpLine OpKind = "L"

	// OpCurve draws a cubic Bezier leg to To via C1 and C2.
	OpCurve OpKind = "C"

	// OpClose closes the subpath; To is unused.
	OpClose OpKind = "Z"
)

// PathOp is one operation of a path primitive.
type PathOp struct {
	Op OpKind `json:"op"`
	To Point  `json:"to,omitzero"`
	C1 Point  `json:"c1,omitzero"`
	C2 Point  `json:"c2,omitzero"`
}

// PrimitiveKind discriminates the primitive variants.
type PrimitiveKind int

const (
	// KindPath is an open or closed stroke.
	KindPath PrimitiveKind = iota

	// KindPolygon is a filled closed shape.
	KindPolygon

	// KindText is a text run anchored at a point.
	KindText
)

// String returns the primitive kind name.
func (k PrimitiveKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindPolygon:
		return "polygon"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// TextAnchor positions text relative to its point.
type TextAnchor string

const (
	AnchorStart  TextAnchor = "start"
	AnchorMiddle TextAnchor = "middle"
	AnchorEnd    TextAnchor = "end"
)

// Primitive is one draw instruction. Kind selects which fields apply: paths
// use Ops and Dashed; polygons use Points and ColorIndex; text uses Text,
// At, Anchor, and Rotate.
type Primitive struct {
	Kind  PrimitiveKind `json:"kind"`
	Class string        `json:"class"`

	// Ops is the operation list for paths.
	Ops []PathOp `json:"ops,omitempty"`

	// Dashed asks the sink for a dashed stroke (pull states).
	Dashed bool `json:"dashed,omitempty"`

	// Points is the vertex list for polygons.
	Points []Point `json:"points,omitempty"`

	// ColorIndex selects the data palette slot for data polygons, -1 for
	// unpaletted shapes. Always serialized: slot 0 is a real palette color.
	ColorIndex int `json:"colorIndex"`

	// Text, At, Anchor, and Rotate describe text runs. Rotate is in
	// degrees around At.
	Text   string     `json:"text,omitempty"`
	At     Point      `json:"at,omitzero"`
	Anchor TextAnchor `json:"anchor,omitempty"`
	Rotate float64    `json:"rotate,omitempty"`
}

// Geometry is the laid-out diagram: a frame plus ordered primitives.
// Head and Foot carry the caption strings through for programmatic
// consumers; the placed caption text also appears as primitives.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Head   string  `json:"head,omitempty"`
	Foot   string  `json:"foot,omitempty"`

	Primitives []Primitive `json:"primitives"`
}

// Path starts a path primitive with a move to the given point.
func Path(class string, x, y float64) Primitive {
	return Primitive{
		Kind:       KindPath,
		Class:      class,
		ColorIndex: -1,
		Ops:        []PathOp{{Op: OpMove, To: Point{X: x, Y: y}}},
	}
}

// Line appends a straight leg.
func (p Primitive) Line(x, y float64) Primitive {
	p.Ops = append(p.Ops, PathOp{Op: OpLine, To: Point{X: x, Y: y}})
	return p
}

// Curve appends a cubic Bezier leg.
func (p Primitive) Curve(c1x, c1y, c2x, c2y, x, y float64) Primitive {
	p.Ops = append(p.Ops, PathOp{
		Op: OpCurve,
		To: Point{X: x, Y: y},
		C1: Point{X: c1x, Y: c1y},
		C2: Point{X: c2x, Y: c2y},
	})
	return p
}

// Move lifts the pen within the same primitive.
func (p Primitive) Move(x, y float64) Primitive {
	p.Ops = append(p.Ops, PathOp{Op: OpMove, To: Point{X: x, Y: y}})
	return p
}

// Close closes the current subpath.
func (p Primitive) Close() Primitive {
	p.Ops = append(p.Ops, PathOp{Op: OpClose})
	return p
}

// Polygon builds a filled shape from its vertices.
func Polygon(class string, points ...Point) Primitive {
	return Primitive{
		Kind:       KindPolygon,
		Class:      class,
		ColorIndex: -1,
		Points:     points,
	}
}

// Text builds a text run anchored at (x, y).
func Text(class, text string, x, y float64, anchor TextAnchor) Primitive {
	return Primitive{
		Kind:       KindText,
		Class:      class,
		ColorIndex: -1,
		Text:       text,
		At:         Point{X: x, Y: y},
		Anchor:     anchor,
	}
}
