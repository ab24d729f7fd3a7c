package compile

import (
	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/grammar"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// Options controls document compilation.
type Options struct {
	// ReserveEmptyGroupRows reserves a label row for untitled groups so
	// their brackets render and align with labeled siblings. The default
	// indents an untitled group's children without a bracket row.
	ReserveEmptyGroupRows bool
}

// Compile turns a decoded document into a Diagram.
//
// Per-signal and per-edge errors are collected on the Diagram's Problems
// list and never abort the rest of the document; the returned error is
// non-nil only when no Diagram can exist at all (a nil document or one with
// zero signals). Node registration over all signals completes before any
// edge is resolved.
func Compile(doc *wavejson.Document, opts Options) (*Diagram, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document is nil")
	}
	if countSignals(doc.Signals) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "document declares no signals")
	}

	d := &Diagram{
		HScale: 1,
		Head:   doc.Head.Text,
		Foot:   doc.Foot.Text,
		Nodes:  NewRegistry(),
	}

	compileConfig(d, doc.Config)
	walkEntries(d, doc.Signals, 0, opts)
	d.Columns = columnCount(d.Rows)
	registerNodes(d)
	resolveEdges(d, doc.Edges)

	return d, nil
}

// compileConfig validates the document config, falling back to defaults on
// bad values so the rest of the compile still runs.
func compileConfig(d *Diagram, cfg wavejson.Config) {
	if !cfg.HScaleSet {
		return
	}
	if !isIntegral(cfg.HScale) || cfg.HScale < 1 {
		d.problem(-1, -1, "config", errors.New(errors.ErrCodeInvalidConfig,
			"hscale must be a positive integer, got %v", cfg.HScale))
		return
	}
	d.HScale = columnAt(cfg.HScale)
}

// walkEntries flattens the signal tree depth-first, assigning monotonically
// increasing row indexes. It returns the number of rows added.
func walkEntries(d *Diagram, entries []wavejson.Entry, depth int, opts Options) int {
	added := 0
	for i := range entries {
		entry := &entries[i]
		switch entry.Kind {
		case wavejson.EntrySignal:
			sig := entry.Signal
			row := Row{
				Index:  len(d.Rows),
				Kind:   RowSignal,
				Depth:  depth,
				Name:   sig.Name,
				Signal: sig,
			}
			segs, err := CompileSignal(sig)
			if err != nil {
				row.Failed = true
				d.problem(row.Index, -1, displayName(sig), err)
			} else {
				row.Segments = segs
			}
			d.Rows = append(d.Rows, row)
			added++

		case wavejson.EntrySpacer:
			d.Rows = append(d.Rows, Row{Index: len(d.Rows), Kind: RowSpacer, Depth: depth})
			added++

		case wavejson.EntryGroup:
			group := entry.Group
			if group.Label == "" {
				d.warn(len(d.Rows), "untitled group: children are indented but no label row is drawn")
			}
			if group.Label != "" || opts.ReserveEmptyGroupRows {
				idx := len(d.Rows)
				d.Rows = append(d.Rows, Row{Index: idx, Kind: RowGroupLabel, Depth: depth, Name: group.Label})
				span := walkEntries(d, group.Children, depth+1, opts)
				d.Rows[idx].Span = span
				added += 1 + span
			} else {
				added += walkEntries(d, group.Children, depth+1, opts)
			}
		}
	}
	return added
}

// columnCount is the maximum column extent over all compiled signals.
// Signals that failed contribute nothing; shorter signals are padded with
// undefined columns at layout time only.
func columnCount(rows []Row) int {
	max := 0
	for i := range rows {
		segs := rows[i].Segments
		if len(segs) == 0 {
			continue
		}
		if end := segs[len(segs)-1].Column + 1; end > max {
			max = end
		}
	}
	return max
}

// registerNodes walks every signal's node string in lockstep with its wave
// expansion and fills the registry. Length mismatches skip the whole signal;
// markers clipped below column zero by a negative phase become warnings.
func registerNodes(d *Diagram) {
	for ri := range d.Rows {
		row := &d.Rows[ri]
		if row.Kind != RowSignal || row.Failed || row.Signal.Node == "" {
			continue
		}
		sig := row.Signal

		markers := []rune(sig.Node)
		if waveLen := len([]rune(sig.Wave)); len(markers) != waveLen {
			d.problem(ri, -1, displayName(sig), errors.New(errors.ErrCodeNodeLengthMismatch,
				"node string has %d markers, wave has %d characters", len(markers), waveLen))
			continue
		}

		for i, marker := range markers {
			if marker == '.' {
				continue
			}
			if !grammar.IsNodeLetter(marker) {
				d.problem(ri, -1, displayName(sig), errors.New(errors.ErrCodeInvalidSignal,
					"node marker %q at position %d is not a letter", marker, i))
				continue
			}
			col := charColumn(sig, i)
			if col < 0 {
				d.warn(ri, "node "+string(marker)+" is clipped by a negative phase and cannot anchor edges")
				continue
			}
			if err := d.Nodes.Register(marker, ri, col); err != nil {
				d.problem(ri, -1, displayName(sig), err)
			}
		}
	}
}

// resolveEdges parses and resolves every edge string. Failures attach to the
// edge's index and never abort the remaining edges.
func resolveEdges(d *Diagram, edges []string) {
	for i, s := range edges {
		edge, err := ParseEdge(s)
		if err != nil {
			d.problem(-1, i, s, err)
			continue
		}
		resolved, err := ResolveEdge(edge, d.Nodes)
		if err != nil {
			d.problem(-1, i, s, err)
			continue
		}
		d.Edges = append(d.Edges, *resolved)
	}
}

// countSignals counts signal leaves across the whole tree.
func countSignals(entries []wavejson.Entry) int {
	n := 0
	for i := range entries {
		switch entries[i].Kind {
		case wavejson.EntrySignal:
			n++
		case wavejson.EntryGroup:
			n += countSignals(entries[i].Group.Children)
		}
	}
	return n
}

func displayName(sig *wavejson.Signal) string {
	if sig.Name != "" {
		return sig.Name
	}
	return "(unnamed)"
}
