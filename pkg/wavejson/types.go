// Package wavejson decodes WaveJSON timing-diagram documents.
//
// WaveJSON is a JSON dialect: a top-level object with an optional "signal"
// array (signals, spacers, and arbitrarily nested groups), an optional "edge"
// array of edge strings, an optional "config" object, and optional "head" and
// "foot" captions. The signal array is heterogeneous in JSON; Decode
// normalizes it into a discriminated Entry tree once, at parse time, so the
// compiler never touches raw JSON shapes.
package wavejson

// EntryKind discriminates the members of the signal tree.
type EntryKind int

const (
	// EntrySignal is a named waveform lane.
	EntrySignal EntryKind = iota

	// EntryGroup is a nested list of entries with an optional label.
	EntryGroup

	// EntrySpacer is an empty object, reserving one blank row.
	EntrySpacer
)

// String returns the entry kind name.
func (k EntryKind) String() string {
	switch k {
	case EntrySignal:
		return "signal"
	case EntryGroup:
		return "group"
	case EntrySpacer:
		return "spacer"
	default:
		return "unknown"
	}
}

// Entry is one member of the signal tree. Exactly one of Signal or Group is
// set, selected by Kind; spacers carry neither.
type Entry struct {
	Kind   EntryKind
	Signal *Signal
	Group  *Group
}

// Signal is a single waveform lane. Immutable after decode.
type Signal struct {
	// Name is the lane label drawn in the left gutter. May be empty.
	Name string

	// Wave is the waveform string over the wave alphabet.
	Wave string

	// Data holds the labels consumed by data characters, in order. Decode
	// accepts either a JSON array of strings or a single
	// whitespace-separated string and normalizes both to this slice.
	Data []string

	// Period stretches every wave character over this many cycles.
	// Defaults to 1 when absent. Must be positive.
	Period float64

	// Phase shifts the expanded signal against the global column grid, in
	// cycles. Positive values move the signal later.
	Phase float64

	// Node marks anchor positions, one rune per wave rune. '.' marks no
	// anchor; letters name one.
	Node string
}

// Group is a nested run of entries with an optional label. An empty label
// means the group is untitled.
type Group struct {
	Label    string
	Children []Entry
}

// Config carries document-level rendering options.
type Config struct {
	// HScale is the horizontal scale factor. It arrives as a raw JSON
	// number; the compiler validates that it is a positive integer.
	HScale float64

	// HScaleSet distinguishes an absent hscale from an explicit value.
	HScaleSet bool
}

// Caption is a head or foot line, passed through to layout verbatim.
type Caption struct {
	Text string
}

// Document is a decoded WaveJSON document.
type Document struct {
	Signals []Entry
	Edges   []string
	Config  Config
	Head    Caption
	Foot    Caption
}
