package puzzle

// Offset is a relative (row, col) step.
type Offset struct {
	DR int
	DC int
}

// Movement is the attack model of a piece type. Sliding pieces repeat each
// offset until blocked; the others test each offset once.
type Movement struct {
	Sliding bool
	Offsets []Offset
}

// Direction order decides which attack is reported first.
var (
	kingOffsets = []Offset{
		{1, 1}, {1, 0}, {1, -1}, {0, 1}, {0, -1}, {-1, 1}, {-1, 0}, {-1, -1},
	}
	rookOffsets   = []Offset{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	bishopOffsets = []Offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightOffsets = []Offset{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
)

var movements = map[Symbol]Movement{
	King:   {Sliding: false, Offsets: kingOffsets},
	Queen:  {Sliding: true, Offsets: kingOffsets},
	Rook:   {Sliding: true, Offsets: rookOffsets},
	Bishop: {Sliding: true, Offsets: bishopOffsets},
	Knight: {Sliding: false, Offsets: knightOffsets},
}

// MovementOf returns the attack model of a piece type. ok is false for
// Empty, Wall and unknown symbols.
func MovementOf(s Symbol) (Movement, bool) {
	m, ok := movements[s]
	return m, ok
}

// SlidesAlong reports whether piece s attacks along direction d (a unit
// step) as a slider.
func SlidesAlong(s Symbol, d Offset) bool {
	m, ok := movements[s]
	if !ok || !m.Sliding {
		return false
	}
	for _, o := range m.Offsets {
		if o == d {
			return true
		}
	}
	return false
}
