package grammar

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		char       rune
		wantOK     bool
		wantKind   Kind
		wantLevel  Level
		wantArrow  bool
		wantColor  int
	}{
		{name: "positive clock", char: 'p', wantOK: true, wantKind: KindClock, wantLevel: LevelHigh},
		{name: "positive clock with arrow", char: 'P', wantOK: true, wantKind: KindClock, wantLevel: LevelHigh, wantArrow: true},
		{name: "negative clock", char: 'n', wantOK: true, wantKind: KindClock, wantLevel: LevelLow},
		{name: "negative clock with arrow", char: 'N', wantOK: true, wantKind: KindClock, wantLevel: LevelLow, wantArrow: true},
		{name: "low level", char: '0', wantOK: true, wantKind: KindLevel, wantLevel: LevelLow},
		{name: "high level", char: '1', wantOK: true, wantKind: KindLevel, wantLevel: LevelHigh},
		{name: "data default color", char: '=', wantOK: true, wantKind: KindData, wantColor: 0},
		{name: "data color 1", char: '2', wantOK: true, wantKind: KindData, wantColor: 1},
		{name: "data color 2", char: '3', wantOK: true, wantKind: KindData, wantColor: 2},
		{name: "data color 3", char: '4', wantOK: true, wantKind: KindData, wantColor: 3},
		{name: "data color 4", char: '5', wantOK: true, wantKind: KindData, wantColor: 4},
		{name: "undefined", char: 'x', wantOK: true, wantKind: KindUndefined},
		{name: "high impedance", char: 'z', wantOK: true, wantKind: KindHighZ},
		{name: "pull up", char: 'u', wantOK: true, wantKind: KindPull, wantLevel: LevelHigh},
		{name: "pull down", char: 'd', wantOK: true, wantKind: KindPull, wantLevel: LevelLow},
		{name: "extend", char: '.', wantOK: true, wantKind: KindExtend},
		{name: "gap", char: '|', wantOK: true, wantKind: KindGap},
		{name: "unknown letter", char: 'q', wantOK: false},
		{name: "unknown digit", char: '9', wantOK: false},
		{name: "whitespace", char: ' ', wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trait, ok := Lookup(tt.char)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.char, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if trait.Char != tt.char {
				t.Errorf("Char = %q, want %q", trait.Char, tt.char)
			}
			if trait.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", trait.Kind, tt.wantKind)
			}
			if trait.Level != tt.wantLevel {
				t.Errorf("Level = %v, want %v", trait.Level, tt.wantLevel)
			}
			if trait.DrawsArrow != tt.wantArrow {
				t.Errorf("DrawsArrow = %v, want %v", trait.DrawsArrow, tt.wantArrow)
			}
			if trait.ColorIndex != tt.wantColor {
				t.Errorf("ColorIndex = %v, want %v", trait.ColorIndex, tt.wantColor)
			}
		})
	}
}

func TestAlphabetCoverage(t *testing.T) {
	// Every advertised character must resolve, and the table must not hold
	// characters the alphabet does not advertise.
	chars := Alphabet()
	if len(chars) != len(traits) {
		t.Fatalf("Alphabet() has %d characters, table has %d", len(chars), len(traits))
	}

	seen := make(map[rune]bool, len(chars))
	for _, r := range chars {
		if seen[r] {
			t.Errorf("Alphabet() lists %q twice", r)
		}
		seen[r] = true
		if !IsWaveChar(r) {
			t.Errorf("IsWaveChar(%q) = false, want true", r)
		}
	}
}

func TestIsExtension(t *testing.T) {
	tests := []struct {
		char     rune
		expected bool
	}{
		{'.', true},
		{'|', true},
		{'0', false},
		{'p', false},
		{'=', false},
		{'q', false},
	}

	for _, tt := range tests {
		if got := IsExtension(tt.char); got != tt.expected {
			t.Errorf("IsExtension(%q) = %v, want %v", tt.char, got, tt.expected)
		}
	}
}

func TestIsNodeLetter(t *testing.T) {
	tests := []struct {
		char        rune
		letter      bool
		visible     bool
	}{
		{'a', true, false},
		{'z', true, false},
		{'A', true, true},
		{'Z', true, true},
		{'.', false, false},
		{'0', false, false},
		{'|', false, false},
	}

	for _, tt := range tests {
		if got := IsNodeLetter(tt.char); got != tt.letter {
			t.Errorf("IsNodeLetter(%q) = %v, want %v", tt.char, got, tt.letter)
		}
		if got := IsVisibleNodeLetter(tt.char); got != tt.visible {
			t.Errorf("IsVisibleNodeLetter(%q) = %v, want %v", tt.char, got, tt.visible)
		}
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindLevel:     "level",
		KindClock:     "clock",
		KindData:      "data",
		KindUndefined: "undefined",
		KindHighZ:     "highz",
		KindPull:      "pull",
		KindExtend:    "extend",
		KindGap:       "gap",
		Kind(99):      "unknown",
	}

	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
