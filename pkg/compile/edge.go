package compile

import (
	"strings"
	"unicode"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/grammar"
)

// ShapeKind is one path-leg style of an edge.
type ShapeKind int

const (
	// ShapeStraight is a direct leg ('-').
	ShapeStraight ShapeKind = iota

	// ShapeCurve is a curved leg ('~').
	ShapeCurve

	// ShapeVertical is a vertical leg ('|').
	ShapeVertical

	// ShapeDiagonalUp is a rising diagonal leg ('/').
	ShapeDiagonalUp

	// ShapeDiagonalDown is a falling diagonal leg ('\').
	ShapeDiagonalDown
)

// String returns the shape character for display.
func (k ShapeKind) String() string {
	switch k {
	case ShapeStraight:
		return "-"
	case ShapeCurve:
		return "~"
	case ShapeVertical:
		return "|"
	case ShapeDiagonalUp:
		return "/"
	case ShapeDiagonalDown:
		return `\`
	default:
		return "?"
	}
}

// LabelAnchor selects where an edge label sits along the path.
type LabelAnchor int

const (
	// AnchorNone means the edge has no label.
	AnchorNone LabelAnchor = iota

	// AnchorStart places the label near the source node.
	AnchorStart

	// AnchorMid places the label at the path midpoint ('#' in the shape).
	AnchorMid
)

// Edge is a parsed timing arrow before node resolution.
type Edge struct {
	// Source and Dest are the node letters at each end.
	Source rune
	Dest   rune

	// Shape holds one entry per shape character, in order.
	Shape []ShapeKind

	// HasArrowHead marks a '>' immediately before the destination.
	HasArrowHead bool

	// LabelAnchor is where the label sits; AnchorNone without a label.
	LabelAnchor LabelAnchor

	// Label is everything after the first whitespace run, verbatim.
	Label string
}

// ResolvedEdge is an edge whose endpoints have been looked up in the
// registry.
type ResolvedEdge struct {
	Edge

	// From and To are the resolved endpoint anchors.
	From Anchor
	To   Anchor
}

// ParseEdge parses one edge string.
//
// Grammar, left to right: a source node letter; a non-empty run of shape
// characters from -, ~, |, /, \ with an optional single '#' marking the
// label anchor as mid; an optional '>' immediately before the destination
// letter for an arrowhead; the destination node letter. Everything after the
// first whitespace run is the label, kept verbatim.
func ParseEdge(s string) (*Edge, error) {
	head := s
	label := ""
	if idx := strings.IndexFunc(s, unicode.IsSpace); idx >= 0 {
		head = s[:idx]
		label = strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
	}

	runes := []rune(head)
	if len(runes) < 3 {
		return nil, errors.New(errors.ErrCodeInvalidEdgeSyntax,
			"edge %q needs a source letter, at least one shape character, and a destination letter", s)
	}

	src := runes[0]
	if !grammar.IsNodeLetter(src) {
		return nil, errors.New(errors.ErrCodeInvalidEdgeSyntax,
			"edge %q starts with %q, want a node letter", s, src)
	}

	dst := runes[len(runes)-1]
	if !grammar.IsNodeLetter(dst) {
		return nil, errors.New(errors.ErrCodeInvalidEdgeSyntax,
			"edge %q ends with %q, want a node letter", s, dst)
	}

	middle := runes[1 : len(runes)-1]

	edge := &Edge{Source: src, Dest: dst, Label: label}

	if len(middle) > 0 && middle[len(middle)-1] == '>' {
		edge.HasArrowHead = true
		middle = middle[:len(middle)-1]
	}

	anchored := false
	for _, r := range middle {
		switch r {
		case '-':
			edge.Shape = append(edge.Shape, ShapeStraight)
		case '~':
			edge.Shape = append(edge.Shape, ShapeCurve)
		case '|':
			edge.Shape = append(edge.Shape, ShapeVertical)
		case '/':
			edge.Shape = append(edge.Shape, ShapeDiagonalUp)
		case '\\':
			edge.Shape = append(edge.Shape, ShapeDiagonalDown)
		case '#':
			if anchored {
				return nil, errors.New(errors.ErrCodeInvalidEdgeSyntax,
					"edge %q has more than one label anchor '#'", s)
			}
			anchored = true
		case '>':
			return nil, errors.New(errors.ErrCodeInvalidEdgeSyntax,
				"edge %q has '>' inside the shape, it must immediately precede the destination", s)
		default:
			return nil, errors.New(errors.ErrCodeInvalidEdgeSyntax,
				"edge %q has shape character %q, want one of - ~ | / \\ #", s, r)
		}
	}

	if len(edge.Shape) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidEdgeSyntax,
			"edge %q has no shape characters between its node letters", s)
	}

	switch {
	case edge.Label == "":
		edge.LabelAnchor = AnchorNone
	case anchored:
		edge.LabelAnchor = AnchorMid
	default:
		edge.LabelAnchor = AnchorStart
	}

	return edge, nil
}

// ResolveEdge looks up both endpoints in the registry. A missing letter
// fails with UNKNOWN_NODE naming it; the edge value is untouched either way.
func ResolveEdge(edge *Edge, reg *Registry) (*ResolvedEdge, error) {
	from, ok := reg.Resolve(edge.Source)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode,
			"edge references undeclared node %q", edge.Source)
	}

	to, ok := reg.Resolve(edge.Dest)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode,
			"edge references undeclared node %q", edge.Dest)
	}

	return &ResolvedEdge{Edge: *edge, From: from, To: to}, nil
}
