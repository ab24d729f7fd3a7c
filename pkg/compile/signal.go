package compile

import (
	"math"

	"github.com/matzehuels/wavetower/pkg/errors"
	"github.com/matzehuels/wavetower/pkg/grammar"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// epsilon is the tolerance for deciding that a fractional period or phase
// still lands on a column boundary.
const epsilon = 1e-9

// isIntegral reports whether x lies on a column boundary.
func isIntegral(x float64) bool {
	return math.Abs(x-math.Round(x)) <= epsilon
}

// columnAt converts a boundary position to its column index.
func columnAt(x float64) int {
	return int(math.Round(x))
}

// runState is the resolved drawing state of one run: a maximal span of
// columns joined without a transition.
type runState struct {
	kind       grammar.Kind
	level      grammar.Level
	dataIndex  int
	colorIndex int
	arrow      bool
}

// run is one resolved span awaiting materialization into segments.
type run struct {
	start int
	state runState
}

// CompileSignal expands one signal's wave string into per-column segments.
//
// Each wave character occupies Period columns, the whole signal is shifted by
// Phase columns against the global grid (positive = later), and columns
// pushed below zero by a negative phase are clipped. Fractional periods and
// phases are legal only while every run boundary and the signal end land on
// integral columns.
//
// Any error invalidates the whole signal: no segments are returned.
func CompileSignal(sig *wavejson.Signal) ([]Segment, error) {
	if sig.Period <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSignal, "period must be positive, got %v", sig.Period)
	}

	chars := []rune(sig.Wave)
	if len(chars) == 0 {
		if len(sig.Data) > 0 {
			return nil, errors.New(errors.ErrCodeDataMismatch,
				"wave has no data characters but %d data labels are supplied", len(sig.Data))
		}
		return nil, nil
	}

	end := sig.Phase + float64(len(chars))*sig.Period
	if !isIntegral(end) {
		return nil, errors.New(errors.ErrCodeFractionalColumn,
			"signal ends at column %v, not on a column boundary", end)
	}

	var (
		runs       []run
		cur        runState
		haveState  bool
		dataCursor int
		gapCols    []int
	)

	for i, r := range chars {
		trait, ok := grammar.Lookup(r)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidWaveChar,
				"wave character %q at position %d is not part of the wave alphabet", r, i)
		}

		start := sig.Phase + float64(i)*sig.Period
		extends := trait.Kind == grammar.KindExtend || trait.Kind == grammar.KindGap

		if extends && !haveState {
			return nil, errors.New(errors.ErrCodeDanglingExtension,
				"wave character %q at position %d has no preceding cycle to extend", r, i)
		}

		newRun := false
		if !extends {
			state := runState{
				kind:       trait.Kind,
				level:      trait.Level,
				dataIndex:  -1,
				colorIndex: trait.ColorIndex,
				arrow:      trait.DrawsArrow,
			}
			if trait.Kind == grammar.KindData {
				if dataCursor >= len(sig.Data) {
					return nil, errors.New(errors.ErrCodeDataMismatch,
						"wave needs more than the %d data labels supplied", len(sig.Data))
				}
				state.dataIndex = dataCursor
				dataCursor++
			}
			cur = state
			haveState = true
			newRun = true
		} else if cur.kind == grammar.KindClock {
			// Extending a clock repeats the pulse rather than holding a
			// level, so every extension column starts a fresh run.
			newRun = true
		}

		if trait.Kind == grammar.KindGap {
			if !isIntegral(start) {
				return nil, errors.New(errors.ErrCodeFractionalColumn,
					"gap at position %d lands at column %v, not on a column boundary", i, start)
			}
			gapCols = append(gapCols, columnAt(start))
		}

		if newRun {
			if !isIntegral(start) {
				return nil, errors.New(errors.ErrCodeFractionalColumn,
					"transition at position %d lands at column %v, not on a column boundary", i, start)
			}
			runs = append(runs, run{start: columnAt(start), state: cur})
		}
	}

	if dataCursor < len(sig.Data) {
		return nil, errors.New(errors.ErrCodeDataMismatch,
			"wave consumes %d data labels but %d are supplied", dataCursor, len(sig.Data))
	}

	return materialize(runs, columnAt(end), gapCols), nil
}

// materialize turns resolved runs into one segment per visible column.
// Columns below zero are clipped; a run whose start is clipped keeps
// SpansFromPrevious on its first visible column because its transition
// happened off-grid.
func materialize(runs []run, endCol int, gapCols []int) []Segment {
	gaps := make(map[int]bool, len(gapCols))
	for _, c := range gapCols {
		gaps[c] = true
	}

	var segs []Segment
	for ri, rn := range runs {
		stop := endCol
		if ri+1 < len(runs) {
			stop = runs[ri+1].start
		}
		for col := rn.start; col < stop; col++ {
			if col < 0 {
				continue
			}
			segs = append(segs, Segment{
				Column:            col,
				Kind:              rn.state.kind,
				Level:             rn.state.level,
				DataIndex:         rn.state.dataIndex,
				ColorIndex:        rn.state.colorIndex,
				ArrowEdge:         rn.state.arrow,
				SpansFromPrevious: col > rn.start,
				Gap:               gaps[col],
			})
		}
	}
	return segs
}

// charColumn returns the grid column containing the start of the i-th wave
// character, which is where node markers anchor. Unlike run boundaries, an
// anchor may sit inside a run, so the position is floored into its column
// rather than required to be integral.
func charColumn(sig *wavejson.Signal, i int) int {
	return int(math.Floor(sig.Phase + float64(i)*sig.Period + epsilon))
}
