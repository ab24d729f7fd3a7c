package compile

import (
	"sort"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/grammar"
)

// Anchor is a named position on the diagram grid, declared by a node letter
// and consumed by edges.
type Anchor struct {
	// Letter is the declaring node letter.
	Letter rune

	// Row and Column locate the anchor on the grid.
	Row    int
	Column int

	// Visible marks uppercase letters, which render their letter at the
	// anchor; lowercase anchors are invisible.
	Visible bool
}

// Registry maps node letters to grid anchors. One letter denotes exactly one
// position per document; registration of all signals completes before any
// edge resolution begins.
type Registry struct {
	anchors map[rune]Anchor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{anchors: make(map[rune]Anchor)}
}

// Register binds a letter to a grid position. Rebinding a letter at the
// identical position is idempotent; rebinding it anywhere else fails with
// DUPLICATE_NODE.
func (r *Registry) Register(letter rune, row, col int) error {
	if existing, ok := r.anchors[letter]; ok {
		if existing.Row == row && existing.Column == col {
			return nil
		}
		return errors.New(errors.ErrCodeDuplicateNode,
			"node %q is already declared at row %d, column %d", letter, existing.Row, existing.Column)
	}

	r.anchors[letter] = Anchor{
		Letter:  letter,
		Row:     row,
		Column:  col,
		Visible: grammar.IsVisibleNodeLetter(letter),
	}
	return nil
}

// Resolve looks up the anchor a letter denotes.
func (r *Registry) Resolve(letter rune) (Anchor, bool) {
	a, ok := r.anchors[letter]
	return a, ok
}

// Len returns the number of registered anchors.
func (r *Registry) Len() int {
	return len(r.anchors)
}

// Anchors returns every anchor ordered by letter, for deterministic output.
func (r *Registry) Anchors() []Anchor {
	out := make([]Anchor, 0, len(r.anchors))
	for _, a := range r.anchors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Letter < out[j].Letter })
	return out
}
