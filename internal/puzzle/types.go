package puzzle

import "fmt"

// Symbol is one board-layer character of the wire format.
type Symbol byte

const (
	Empty  Symbol = '.'
	Wall   Symbol = '#'
	King   Symbol = 'K'
	Queen  Symbol = 'Q'
	Rook   Symbol = 'R'
	Bishop Symbol = 'B'
	Knight Symbol = 'N'
)

// PieceCount is the size of the closed piece set.
const PieceCount = 5

// Pieces lists the piece types in enumeration order. Points, wire order and
// generator draws all follow this order.
var Pieces = [PieceCount]Symbol{King, Queen, Rook, Bishop, Knight}

var pieceNames = [PieceCount]string{"King", "Queen", "Rook", "Bishop", "Knight"}

// IsPiece reports whether s names one of the five piece types.
func (s Symbol) IsPiece() bool {
	return s.Index() >= 0
}

// IsLegal reports whether s may appear in the board layer of a response.
func (s Symbol) IsLegal() bool {
	return s == Empty || s == Wall || s.IsPiece()
}

// Index returns the enumeration index of a piece type, or -1.
func (s Symbol) Index() int {
	for i, p := range Pieces {
		if p == s {
			return i
		}
	}
	return -1
}

func (s Symbol) String() string {
	if i := s.Index(); i >= 0 {
		return pieceNames[i]
	}
	switch s {
	case Empty:
		return "Empty"
	case Wall:
		return "Wall"
	}
	return fmt.Sprintf("Symbol(%q)", byte(s))
}

// Coord addresses a cell as (row, col).
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// TestCase is one generated puzzle instance. It is read-only once generated.
type TestCase struct {
	Seed   int64
	N      int
	C      int
	Grid   [][]Symbol
	Points [PieceCount]int
}

// Cells returns N*N.
func (tc TestCase) Cells() int {
	return tc.N * tc.N
}

// ResponseLen is the exact token count a candidate must return.
func (tc TestCase) ResponseLen() int {
	return 2 * tc.N * tc.N
}

// InGrid reports whether (r, c) lies on the board.
func (tc TestCase) InGrid(r, c int) bool {
	return inGrid(tc.N, r, c)
}

// PointsFor returns the point value of a piece type, 0 for non-pieces.
func (tc TestCase) PointsFor(s Symbol) int {
	if i := s.Index(); i >= 0 {
		return tc.Points[i]
	}
	return 0
}

// Placement is a validated candidate board: symbols plus the owning color of
// every piece cell. Players is 0 for non-piece cells.
type Placement struct {
	N       int
	Board   [][]Symbol
	Players [][]int
}

// NewPlacement returns a placement that reproduces grid with no pieces.
func NewPlacement(grid [][]Symbol) Placement {
	n := len(grid)
	p := Placement{N: n, Board: CloneGrid(grid), Players: make([][]int, n)}
	for r := range p.Players {
		p.Players[r] = make([]int, n)
	}
	return p
}

// InGrid reports whether (r, c) lies on the board.
func (p Placement) InGrid(r, c int) bool {
	return inGrid(p.N, r, c)
}

// Clone returns a deep copy.
func (p Placement) Clone() Placement {
	out := Placement{N: p.N, Board: CloneGrid(p.Board), Players: make([][]int, len(p.Players))}
	for r, row := range p.Players {
		out.Players[r] = append([]int(nil), row...)
	}
	return out
}

// CloneGrid returns a deep copy of a symbol grid.
func CloneGrid(grid [][]Symbol) [][]Symbol {
	out := make([][]Symbol, len(grid))
	for r, row := range grid {
		out[r] = append([]Symbol(nil), row...)
	}
	return out
}

// GridString renders a symbol grid one row per line.
func GridString(grid [][]Symbol) string {
	buf := make([]byte, 0, len(grid)*(len(grid)+1))
	for _, row := range grid {
		for _, s := range row {
			buf = append(buf, byte(s))
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

func inGrid(n, r, c int) bool {
	return r >= 0 && r < n && c >= 0 && c < n
}
