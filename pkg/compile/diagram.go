// Package compile turns decoded WaveJSON documents into diagrams.
//
// Compilation is a pure, synchronous transformation: no I/O, no retained
// state, no logging. Per-signal and per-edge failures are collected on the
// Diagram rather than aborting, so a caller can report every problem in one
// pass. Separate documents may be compiled concurrently without coordination.
package compile

import (
	"github.com/matzehuels/wavetower/pkg/grammar"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// RowKind discriminates the flattened diagram rows.
type RowKind int

const (
	// RowSignal is a waveform lane.
	RowSignal RowKind = iota

	// RowSpacer is a blank lane.
	RowSpacer

	// RowGroupLabel is a synthetic lane holding a group's label and
	// bracket, inserted before the group's children.
	RowGroupLabel
)

// String returns the row kind name.
func (k RowKind) String() string {
	switch k {
	case RowSignal:
		return "signal"
	case RowSpacer:
		return "spacer"
	case RowGroupLabel:
		return "group"
	default:
		return "unknown"
	}
}

// Segment is one compiled column of one signal row.
//
// Kind is always a resolved drawing kind (level, clock, data, undefined,
// high-z, pull); extension characters never appear here because they resolve
// to the state they extend. Gap columns keep the resolved state of the run
// they interrupt and set Gap on top of it.
type Segment struct {
	// Column is the global grid column this segment occupies.
	Column int

	// Kind selects the drawing style.
	Kind grammar.Kind

	// Level is the driven level for levels and pulls, and the starting
	// half-cycle level for clock pulses.
	Level grammar.Level

	// DataIndex indexes the signal's data labels for data segments, -1
	// otherwise.
	DataIndex int

	// ColorIndex selects the palette slot for data segments.
	ColorIndex int

	// ArrowEdge marks clock pulses whose driving edge carries an arrow.
	ArrowEdge bool

	// SpansFromPrevious joins this column to the previous one in the same
	// run: no transition is drawn at its left boundary and data boxes
	// extend across it.
	SpansFromPrevious bool

	// Gap marks the jagged gap overlay at this column.
	Gap bool
}

// Row is one horizontal band of the flattened diagram.
type Row struct {
	// Index is the row's position, assigned depth-first.
	Index int

	// Kind discriminates signal, spacer, and group-label rows.
	Kind RowKind

	// Depth is the group nesting depth, 0 at top level.
	Depth int

	// Name is the signal name or group label.
	Name string

	// Signal is the source entry for signal rows, nil otherwise.
	Signal *wavejson.Signal

	// Segments holds the compiled columns for signal rows. Empty when the
	// signal failed to compile.
	Segments []Segment

	// Failed marks signal rows whose compile failed; the row still exists
	// so later rows keep their indexes.
	Failed bool

	// Span is the number of descendant rows a group-label row covers,
	// including nested group-label rows.
	Span int
}

// DataLabel returns the label a data segment displays, or "" when the
// segment carries no data.
func (r *Row) DataLabel(s Segment) string {
	if r.Signal == nil || s.DataIndex < 0 || s.DataIndex >= len(r.Signal.Data) {
		return ""
	}
	return r.Signal.Data[s.DataIndex]
}

// Problem records one compile error attached to the entity that caused it.
type Problem struct {
	// Row is the diagram row of the offending signal, or -1 when the
	// problem is not row-scoped.
	Row int

	// Edge is the index into the document's edge array, or -1 when the
	// problem is not edge-scoped.
	Edge int

	// Name identifies the entity for display: the signal name, the raw
	// edge string, or "config".
	Name string

	// Err is the structured error.
	Err error
}

// Warning records a non-fatal oddity observed during compilation.
type Warning struct {
	// Row is the affected row, or -1 when not row-scoped.
	Row int

	// Message describes the oddity.
	Message string
}

// Diagram is the compiled document: the sole output of Compile.
type Diagram struct {
	// Rows is the flattened signal tree, in render order.
	Rows []Row

	// Columns is the document-wide column count.
	Columns int

	// HScale is the validated horizontal scale factor, at least 1.
	HScale int

	// Head and Foot are the caption lines, passed through verbatim.
	Head string
	Foot string

	// Nodes maps node letters to grid anchors.
	Nodes *Registry

	// Edges holds the successfully resolved timing arrows.
	Edges []ResolvedEdge

	// Problems holds every per-entity compile error. The document is
	// valid only when this is empty.
	Problems []Problem

	// Warnings holds non-fatal oddities (untitled groups, clipped node
	// markers).
	Warnings []Warning
}

// Valid reports whether the document compiled without problems. Warnings do
// not affect validity.
func (d *Diagram) Valid() bool {
	return len(d.Problems) == 0
}

func (d *Diagram) problem(row, edge int, name string, err error) {
	d.Problems = append(d.Problems, Problem{Row: row, Edge: edge, Name: name, Err: err})
}

func (d *Diagram) warn(row int, message string) {
	d.Warnings = append(d.Warnings, Warning{Row: row, Message: message})
}
