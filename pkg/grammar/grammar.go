// Package grammar defines the WaveJSON wave-character alphabet.
//
// Every character of a wave string maps to exactly one Trait record in a
// static lookup table. The table is the single source of truth for what a
// character means; the compiler and layout engine never switch on raw runes.
package grammar

// Kind classifies the drawing style a wave character produces.
type Kind int

const (
	// KindLevel is a steady low or high line.
	KindLevel Kind = iota

	// KindClock is a periodic pulse, one per cycle.
	KindClock

	// KindData is a labeled bus value drawn as a hexagonal box.
	KindData

	// KindUndefined is an unknown state drawn with a hatched fill.
	KindUndefined

	// KindHighZ is a high-impedance state drawn as a midline.
	KindHighZ

	// KindPull is a weak pull toward a level, drawn as a dashed line.
	KindPull

	// KindExtend repeats or extends the previous resolved cycle ('.').
	KindExtend

	// KindGap extends the previous state and inserts a gap marker ('|').
	KindGap
)

// String returns the kind name for debugging and error messages.
func (k Kind) String() string {
	switch k {
	case KindLevel:
		return "level"
	case KindClock:
		return "clock"
	case KindData:
		return "data"
	case KindUndefined:
		return "undefined"
	case KindHighZ:
		return "highz"
	case KindPull:
		return "pull"
	case KindExtend:
		return "extend"
	case KindGap:
		return "gap"
	default:
		return "unknown"
	}
}

// Level is the line position a character holds or starts at.
type Level int

const (
	// LevelNone applies to kinds without a driven level (data, undefined, high-z).
	LevelNone Level = iota

	// LevelLow is the low rail.
	LevelLow

	// LevelHigh is the high rail.
	LevelHigh
)

// Trait describes one wave character. Traits are immutable; the table below
// is built once and only read afterwards.
type Trait struct {
	// Char is the wave character this trait describes.
	Char rune

	// Kind selects the drawing style.
	Kind Kind

	// Level is the driven level for levels and pulls, and the starting
	// half-cycle level for clocks (high for positive clocks, low for
	// negative clocks).
	Level Level

	// DrawsArrow marks clock characters whose driving edge is decorated
	// with an arrow ('P' and 'N').
	DrawsArrow bool

	// ColorIndex selects the palette slot for data characters. '=' is 0,
	// '2' through '5' are 1 through 4.
	ColorIndex int
}

// IsClock reports whether the trait is a clock character.
func (t Trait) IsClock() bool { return t.Kind == KindClock }

// IsData reports whether the trait carries a data label.
func (t Trait) IsData() bool { return t.Kind == KindData }

// traits is the wave-character table. Sixteen characters plus the two
// extension forms cover the whole alphabet.
var traits = map[rune]Trait{
	'p': {Char: 'p', Kind: KindClock, Level: LevelHigh},
	'P': {Char: 'P', Kind: KindClock, Level: LevelHigh, DrawsArrow: true},
	'n': {Char: 'n', Kind: KindClock, Level: LevelLow},
	'N': {Char: 'N', Kind: KindClock, Level: LevelLow, DrawsArrow: true},
	'0': {Char: '0', Kind: KindLevel, Level: LevelLow},
	'1': {Char: '1', Kind: KindLevel, Level: LevelHigh},
	'=': {Char: '=', Kind: KindData, ColorIndex: 0},
	'2': {Char: '2', Kind: KindData, ColorIndex: 1},
	'3': {Char: '3', Kind: KindData, ColorIndex: 2},
	'4': {Char: '4', Kind: KindData, ColorIndex: 3},
	'5': {Char: '5', Kind: KindData, ColorIndex: 4},
	'x': {Char: 'x', Kind: KindUndefined},
	'z': {Char: 'z', Kind: KindHighZ},
	'u': {Char: 'u', Kind: KindPull, Level: LevelHigh},
	'd': {Char: 'd', Kind: KindPull, Level: LevelLow},
	'.': {Char: '.', Kind: KindExtend},
	'|': {Char: '|', Kind: KindGap},
}

// Lookup returns the trait for a wave character. The second return is false
// for characters outside the alphabet.
func Lookup(r rune) (Trait, bool) {
	t, ok := traits[r]
	return t, ok
}

// IsWaveChar reports whether r belongs to the wave alphabet.
func IsWaveChar(r rune) bool {
	_, ok := traits[r]
	return ok
}

// IsExtension reports whether r extends the previous cycle rather than
// starting a new resolved state ('.' and '|').
func IsExtension(r rune) bool {
	t, ok := traits[r]
	return ok && (t.Kind == KindExtend || t.Kind == KindGap)
}

// IsNodeLetter reports whether r can name a node anchor. Letters a-z and
// A-Z are anchors; uppercase letters additionally render a visible label.
func IsNodeLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsVisibleNodeLetter reports whether r is an anchor that renders a label.
func IsVisibleNodeLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// Alphabet returns every wave character in a stable order, for error
// messages and documentation.
func Alphabet() []rune {
	return []rune{'p', 'n', 'P', 'N', '0', '1', '.', '=', '2', '3', '4', '5', 'x', 'z', 'u', 'd', '|'}
}
